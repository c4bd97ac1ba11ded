package services

import (
	"context"
	"strings"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
)

type CohortService struct {
	cohortRepo *repository.CohortRepository
}

func NewCohortService(cohortRepo *repository.CohortRepository) *CohortService {
	return &CohortService{cohortRepo: cohortRepo}
}

func normalizeCohortInput(input repository.CohortInput) (repository.CohortInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = trimOptional(input.Description)
	input.Season = trimOptional(input.Season)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Status == "" {
		input.Status = models.CohortStatusActive
	}

	if input.Name == "" {
		return input, ErrInvalidInput
	}
	if input.Status != models.CohortStatusActive && input.Status != models.CohortStatusArchived {
		return input, ErrInvalidInput
	}
	return input, nil
}

func (s *CohortService) Create(ctx context.Context, associationID int64, input repository.CohortInput) (*models.Cohort, error) {
	input, err := normalizeCohortInput(input)
	if err != nil {
		return nil, err
	}
	cohort, err := s.cohortRepo.Create(ctx, associationID, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return cohort, nil
}

func (s *CohortService) Get(ctx context.Context, associationID, id int64) (*models.Cohort, error) {
	cohort, err := s.cohortRepo.GetByID(ctx, associationID, id)
	if err != nil {
		return nil, translateError(err, err)
	}
	return cohort, nil
}

func (s *CohortService) List(ctx context.Context, filter repository.CohortListFilter) ([]models.Cohort, int, error) {
	return s.cohortRepo.List(ctx, filter)
}

func (s *CohortService) Update(ctx context.Context, associationID, id int64, input repository.CohortInput) (*models.Cohort, error) {
	input, err := normalizeCohortInput(input)
	if err != nil {
		return nil, err
	}
	cohort, err := s.cohortRepo.Update(ctx, associationID, id, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return cohort, nil
}

// Delete is refused with ErrInUse while players or sessions point at the cohort.
func (s *CohortService) Delete(ctx context.Context, associationID, id int64) error {
	return translateError(s.cohortRepo.Delete(ctx, associationID, id), ErrInUse)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
