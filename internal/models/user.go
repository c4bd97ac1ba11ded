package models

import "time"

const (
	RoleSuperadmin       = "superadmin"
	RoleAssociationAdmin = "association_admin"
	RoleEvaluator        = "evaluator"
)

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	AssociationID *int64    `json:"association_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAssociationAdmin, RoleEvaluator:
		return true
	default:
		return false
	}
}
