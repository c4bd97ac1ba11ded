package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/pkg/utils"
)

const defaultSport = "hockey"

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ txBeginner = (*pgxpool.Pool)(nil)

type AssociationService struct {
	db              txBeginner
	associationRepo *repository.AssociationRepository
}

func NewAssociationService(db txBeginner, associationRepo *repository.AssociationRepository) *AssociationService {
	return &AssociationService{db: db, associationRepo: associationRepo}
}

type InitialAdminInput struct {
	Email    string
	Password string
	FullName string
}

type CreateAssociationResult struct {
	Association *models.Association `json:"association"`
	Admin       *models.User        `json:"admin,omitempty"`
}

func normalizeAssociationInput(input repository.AssociationInput) (repository.AssociationInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Abbreviation = strings.ToUpper(strings.TrimSpace(input.Abbreviation))
	input.Sport = strings.ToLower(strings.TrimSpace(input.Sport))
	if input.Sport == "" {
		input.Sport = defaultSport
	}
	if input.ContactEmail != nil {
		email := normalizeEmail(*input.ContactEmail)
		if email == "" {
			input.ContactEmail = nil
		} else {
			input.ContactEmail = &email
		}
	}

	abbreviationLength := utf8.RuneCountInString(input.Abbreviation)
	if input.Name == "" || abbreviationLength < 2 || abbreviationLength > 10 {
		return input, ErrInvalidInput
	}
	return input, nil
}

// Create inserts the association and, when admin is set, its first
// association admin account. Both rows commit together or not at all.
func (s *AssociationService) Create(
	ctx context.Context,
	actor Actor,
	input repository.AssociationInput,
	admin *InitialAdminInput,
) (*CreateAssociationResult, error) {
	if !actor.IsSuperadmin() {
		return nil, ErrForbidden
	}
	input, err := normalizeAssociationInput(input)
	if err != nil {
		return nil, err
	}

	var passwordHash string
	if admin != nil {
		if normalizeEmail(admin.Email) == "" || len(admin.Password) < MinPasswordLength {
			return nil, ErrInvalidInput
		}
		passwordHash, err = utils.HashPassword(admin.Password)
		if err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	association, err := repository.NewAssociationRepository(tx).Create(ctx, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}

	result := &CreateAssociationResult{Association: association}
	if admin != nil {
		user := &models.User{
			Email:         normalizeEmail(admin.Email),
			PasswordHash:  passwordHash,
			FullName:      strings.TrimSpace(admin.FullName),
			Role:          models.RoleAssociationAdmin,
			AssociationID: &association.ID,
		}
		if err := repository.NewUserRepository(tx).CreateUser(ctx, user); err != nil {
			return nil, translateError(err, ErrInvalidInput)
		}
		result.Admin = user
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AssociationService) Get(ctx context.Context, actor Actor, id int64) (*models.Association, error) {
	if !actor.CanAccessAssociation(id) {
		return nil, ErrForbidden
	}
	association, err := s.associationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateError(err, err)
	}
	return association, nil
}

func (s *AssociationService) List(
	ctx context.Context,
	actor Actor,
	filter repository.AssociationListFilter,
) ([]models.Association, int, error) {
	if !actor.IsSuperadmin() {
		if actor.AssociationID == nil {
			return nil, 0, ErrForbidden
		}
		association, err := s.Get(ctx, actor, *actor.AssociationID)
		if err != nil {
			return nil, 0, err
		}
		return []models.Association{*association}, 1, nil
	}
	return s.associationRepo.List(ctx, filter)
}

func (s *AssociationService) Update(
	ctx context.Context,
	actor Actor,
	id int64,
	input repository.AssociationInput,
) (*models.Association, error) {
	if !actor.IsSuperadmin() {
		return nil, ErrForbidden
	}
	input, err := normalizeAssociationInput(input)
	if err != nil {
		return nil, err
	}
	association, err := s.associationRepo.Update(ctx, id, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return association, nil
}

func (s *AssociationService) SetStatus(ctx context.Context, actor Actor, id int64, status string) (*models.Association, error) {
	if !actor.IsSuperadmin() {
		return nil, ErrForbidden
	}
	if status != models.AssociationStatusActive && status != models.AssociationStatusInactive {
		return nil, ErrInvalidInput
	}
	association, err := s.associationRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, translateError(err, err)
	}
	return association, nil
}
