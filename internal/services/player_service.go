package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
)

type cohortReader interface {
	GetByID(ctx context.Context, associationID, id int64) (*models.Cohort, error)
}

type PlayerService struct {
	playerRepo *repository.PlayerRepository
	cohortRepo cohortReader
}

func NewPlayerService(playerRepo *repository.PlayerRepository, cohortRepo cohortReader) *PlayerService {
	return &PlayerService{playerRepo: playerRepo, cohortRepo: cohortRepo}
}

func (s *PlayerService) normalize(ctx context.Context, associationID int64, input repository.PlayerInput) (repository.PlayerInput, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.FirstName == "" || input.LastName == "" || input.BirthDate.IsZero() {
		return input, ErrInvalidInput
	}
	if input.BirthDate.After(time.Now()) {
		return input, ErrInvalidInput
	}
	if input.JerseyNumber != nil && (*input.JerseyNumber < 0 || *input.JerseyNumber > 99) {
		return input, ErrInvalidInput
	}

	position, ok := models.NormalizePosition(input.Position)
	if !ok {
		return input, ErrInvalidInput
	}
	input.Position = position

	if err := ensureCohort(ctx, s.cohortRepo, associationID, input.CohortID); err != nil {
		return input, err
	}
	return input, nil
}

func (s *PlayerService) Create(ctx context.Context, associationID int64, input repository.PlayerInput) (*models.Player, error) {
	input, err := s.normalize(ctx, associationID, input)
	if err != nil {
		return nil, err
	}
	player, err := s.playerRepo.Create(ctx, associationID, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return player, nil
}

func (s *PlayerService) Get(ctx context.Context, associationID, id int64) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, associationID, id)
	if err != nil {
		return nil, translateError(err, err)
	}
	return player, nil
}

func (s *PlayerService) List(ctx context.Context, filter repository.PlayerListFilter) ([]models.Player, int, error) {
	if filter.Position != "" {
		position, ok := models.NormalizePosition(filter.Position)
		if !ok {
			return nil, 0, ErrInvalidInput
		}
		filter.Position = position
	}
	return s.playerRepo.List(ctx, filter)
}

func (s *PlayerService) Update(ctx context.Context, associationID, id int64, input repository.PlayerInput) (*models.Player, error) {
	input, err := s.normalize(ctx, associationID, input)
	if err != nil {
		return nil, err
	}
	player, err := s.playerRepo.Update(ctx, associationID, id, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return player, nil
}

func (s *PlayerService) Delete(ctx context.Context, associationID, id int64) error {
	return translateError(s.playerRepo.Delete(ctx, associationID, id), ErrInUse)
}

// ensureCohort rejects references to cohorts outside the association.
func ensureCohort(ctx context.Context, cohorts cohortReader, associationID, cohortID int64) error {
	if cohortID <= 0 {
		return ErrInvalidInput
	}
	if _, err := cohorts.GetByID(ctx, associationID, cohortID); err != nil {
		err = translateError(err, err)
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidInput
		}
		return err
	}
	return nil
}
