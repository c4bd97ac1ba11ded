package services

import (
	"context"
	"errors"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/pkg/utils"
)

type UserService struct {
	users        userStore
	associations associationReader
}

func NewUserService(users userStore, associations associationReader) *UserService {
	return &UserService{users: users, associations: associations}
}

type CreateUserInput struct {
	Email         string
	Password      string
	FullName      string
	Role          string
	AssociationID *int64
}

func (s *UserService) List(ctx context.Context, actor Actor, filter repository.UserListFilter) ([]models.User, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	if !actor.IsSuperadmin() {
		filter.AssociationID = actor.AssociationID
	}
	return s.users.List(ctx, filter)
}

func (s *UserService) Get(ctx context.Context, actor Actor, id int64) (*models.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrForbidden
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateError(err, err)
	}
	if !canManageUser(actor, user) && actor.UserID != id {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, actor Actor, input CreateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !models.IsValidRole(input.Role) || len(input.Password) < MinPasswordLength {
		return nil, ErrInvalidInput
	}

	if !actor.IsSuperadmin() {
		if input.Role == models.RoleSuperadmin {
			return nil, ErrForbidden
		}
		input.AssociationID = actor.AssociationID
	}

	if input.Role == models.RoleSuperadmin {
		input.AssociationID = nil
	} else {
		if input.AssociationID == nil {
			return nil, ErrInvalidInput
		}
		if _, err := s.associations.GetByID(ctx, *input.AssociationID); err != nil {
			err = translateError(err, err)
			if errors.Is(err, ErrNotFound) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:         normalizeEmail(input.Email),
		PasswordHash:  hash,
		FullName:      input.FullName,
		Role:          input.Role,
		AssociationID: input.AssociationID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor Actor, id int64, input repository.UpdateUserInput) (*models.User, error) {
	target, err := s.manageableUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && *input.Role != target.Role {
		if actor.UserID == id {
			return nil, ErrForbidden
		}
		// Superadmins have no association, so the role cannot move across that line.
		if !models.IsValidRole(*input.Role) || *input.Role == models.RoleSuperadmin || target.Role == models.RoleSuperadmin {
			return nil, ErrInvalidInput
		}
	}
	if input.IsActive != nil && !*input.IsActive && actor.UserID == id {
		return nil, ErrForbidden
	}

	updated, err := s.users.Update(ctx, id, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return updated, nil
}

func (s *UserService) ResetPassword(ctx context.Context, actor Actor, id int64, password string) error {
	if len(password) < MinPasswordLength {
		return ErrInvalidInput
	}
	if _, err := s.manageableUser(ctx, actor, id); err != nil {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return translateError(s.users.UpdatePassword(ctx, id, hash), ErrInvalidInput)
}

func (s *UserService) Deactivate(ctx context.Context, actor Actor, id int64) (*models.User, error) {
	inactive := false
	return s.Update(ctx, actor, id, repository.UpdateUserInput{IsActive: &inactive})
}

func (s *UserService) manageableUser(ctx context.Context, actor Actor, id int64) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateError(err, err)
	}
	if !canManageUser(actor, target) {
		return nil, ErrNotFound
	}
	return target, nil
}

// canManageUser hides accounts outside the association admin's tenant.
func canManageUser(actor Actor, target *models.User) bool {
	if actor.IsSuperadmin() {
		return true
	}
	if actor.Role != models.RoleAssociationAdmin || target.AssociationID == nil {
		return false
	}
	return actor.CanAccessAssociation(*target.AssociationID)
}
