package services

import (
	"context"
	"strings"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
)

type DrillService struct {
	drillRepo *repository.DrillRepository
}

func NewDrillService(drillRepo *repository.DrillRepository) *DrillService {
	return &DrillService{drillRepo: drillRepo}
}

func normalizeDrillInput(input repository.DrillInput) (repository.DrillInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = trimOptional(input.Description)
	input.Category = trimOptional(input.Category)
	if input.Category != nil {
		category := strings.ToLower(*input.Category)
		input.Category = &category
	}
	input.Instructions = trimOptional(input.Instructions)

	if input.Name == "" {
		return input, ErrInvalidInput
	}
	return input, nil
}

func (s *DrillService) Create(ctx context.Context, associationID int64, input repository.DrillInput) (*models.Drill, error) {
	input, err := normalizeDrillInput(input)
	if err != nil {
		return nil, err
	}
	drill, err := s.drillRepo.Create(ctx, associationID, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return drill, nil
}

func (s *DrillService) Get(ctx context.Context, associationID, id int64) (*models.Drill, error) {
	drill, err := s.drillRepo.GetByID(ctx, associationID, id)
	if err != nil {
		return nil, translateError(err, err)
	}
	return drill, nil
}

func (s *DrillService) List(ctx context.Context, filter repository.DrillListFilter) ([]models.Drill, int, error) {
	return s.drillRepo.List(ctx, filter)
}

func (s *DrillService) Update(ctx context.Context, associationID, id int64, input repository.DrillInput) (*models.Drill, error) {
	input, err := normalizeDrillInput(input)
	if err != nil {
		return nil, err
	}
	drill, err := s.drillRepo.Update(ctx, associationID, id, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return drill, nil
}

// Delete is refused with ErrInUse while a session configuration or a score
// references the drill. Deactivating it is the alternative.
func (s *DrillService) Delete(ctx context.Context, associationID, id int64) error {
	return translateError(s.drillRepo.Delete(ctx, associationID, id), ErrInUse)
}
