package models

import "time"

const (
	AssociationStatusActive   = "active"
	AssociationStatusInactive = "inactive"
)

type Association struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Sport        string    `json:"sport"`
	ContactEmail *string   `json:"contact_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
