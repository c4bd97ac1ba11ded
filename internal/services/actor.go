package services

import "github.com/saeid-a/EvalAdminBack/internal/models"

// Actor is the authenticated caller as resolved by the auth middleware.
type Actor struct {
	UserID        int64
	Role          string
	AssociationID *int64
}

func (a Actor) IsSuperadmin() bool {
	return a.Role == models.RoleSuperadmin
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleSuperadmin || a.Role == models.RoleAssociationAdmin
}

func (a Actor) CanAccessAssociation(associationID int64) bool {
	if a.IsSuperadmin() {
		return true
	}
	return a.AssociationID != nil && *a.AssociationID == associationID
}
