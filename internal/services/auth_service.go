package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/pkg/utils"
)

const MinPasswordLength = 8

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, filter repository.UserListFilter) ([]models.User, int, error)
	Update(ctx context.Context, id int64, input repository.UpdateUserInput) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type associationReader interface {
	GetByID(ctx context.Context, id int64) (*models.Association, error)
}

type AuthService struct {
	users        userStore
	associations associationReader
	jwtSecret    string
	tokenTTL     time.Duration
}

func NewAuthService(users userStore, associations associationReader, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:        users,
		associations: associations,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

type LoginResult struct {
	Token       string              `json:"token"`
	User        *models.User        `json:"user"`
	Association *models.Association `json:"association,omitempty"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	association, err := s.userAssociation(ctx, user)
	if err != nil {
		return nil, err
	}
	if association != nil && association.Status != models.AssociationStatusActive {
		return nil, ErrAccountInactive
	}

	associationID := ""
	if user.AssociationID != nil {
		associationID = strconv.FormatInt(*user.AssociationID, 10)
	}
	token, err := utils.GenerateTokenWithTTL(strconv.FormatInt(user.ID, 10), user.Role, associationID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user, Association: association}, nil
}

func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, *models.Association, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, nil, translateError(err, err)
	}
	association, err := s.userAssociation(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, association, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return translateError(err, err)
	}
	if !utils.CheckPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return translateError(s.users.UpdatePassword(ctx, user.ID, hash), ErrInvalidInput)
}

func (s *AuthService) userAssociation(ctx context.Context, user *models.User) (*models.Association, error) {
	if user.AssociationID == nil {
		return nil, nil
	}
	association, err := s.associations.GetByID(ctx, *user.AssociationID)
	if err != nil {
		return nil, translateError(err, err)
	}
	return association, nil
}
