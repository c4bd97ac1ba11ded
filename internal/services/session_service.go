package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"go.uber.org/zap"
)

const defaultSessionDuration = 60

type SessionService struct {
	db               txBeginner
	sessionRepo      *repository.SessionRepository
	sessionDrillRepo *repository.SessionDrillRepository
	scoreRepo        *repository.ScoreRepository
	cohortRepo       cohortReader
	events           EventPublisher
	logger           *zap.Logger
}

func NewSessionService(
	db txBeginner,
	sessionRepo *repository.SessionRepository,
	sessionDrillRepo *repository.SessionDrillRepository,
	scoreRepo *repository.ScoreRepository,
	cohortRepo cohortReader,
	events EventPublisher,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		db:               db,
		sessionRepo:      sessionRepo,
		sessionDrillRepo: sessionDrillRepo,
		scoreRepo:        scoreRepo,
		cohortRepo:       cohortRepo,
		events:           publisherOrNoop(events),
		logger:           logger,
	}
}

func (s *SessionService) normalize(ctx context.Context, associationID int64, input repository.SessionInput) (repository.SessionInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Location = trimOptional(input.Location)
	if input.DurationMinutes == 0 {
		input.DurationMinutes = defaultSessionDuration
	}
	if input.Name == "" || input.WaveNumber < 1 || input.DurationMinutes < 0 || input.ScheduledAt.IsZero() {
		return input, ErrInvalidInput
	}
	input.ScheduledAt = input.ScheduledAt.UTC()

	if err := ensureCohort(ctx, s.cohortRepo, associationID, input.CohortID); err != nil {
		return input, err
	}
	return input, nil
}

func (s *SessionService) Create(ctx context.Context, associationID int64, input repository.SessionInput) (*models.Session, error) {
	input, err := s.normalize(ctx, associationID, input)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.Create(ctx, associationID, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, associationID, sessionID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, associationID, sessionID)
	if err != nil {
		return nil, translateError(err, err)
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context, filter repository.SessionListFilter) ([]models.Session, int, error) {
	if filter.Status != "" && !isSessionStatus(filter.Status) {
		return nil, 0, ErrInvalidInput
	}
	return s.sessionRepo.List(ctx, filter)
}

func (s *SessionService) Update(ctx context.Context, associationID, sessionID int64, input repository.SessionInput) (*models.Session, error) {
	input, err := s.normalize(ctx, associationID, input)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.Update(ctx, associationID, sessionID, input)
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	return session, nil
}

// Delete refuses sessions that already hold scores.
func (s *SessionService) Delete(ctx context.Context, associationID, sessionID int64) error {
	session, err := s.Get(ctx, associationID, sessionID)
	if err != nil {
		return err
	}
	scored, err := s.scoreRepo.HasScores(ctx, session.ID)
	if err != nil {
		return err
	}
	if scored {
		return ErrSessionLocked
	}
	return translateError(s.sessionRepo.Delete(ctx, associationID, sessionID), ErrInUse)
}

func (s *SessionService) UpdateStatus(
	ctx context.Context,
	associationID int64,
	sessionID int64,
	requestedStatus string,
) (*models.Session, error) {
	nextStatus, err := normalizeRequestedStatus(requestedStatus)
	if err != nil {
		return nil, err
	}

	session, err := s.Get(ctx, associationID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == nextStatus {
		return session, nil
	}
	if err := validateStatusTransition(session.Status, nextStatus); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, associationID, sessionID, session.Status, nextStatus)
	if err != nil {
		// Someone else moved the session between the read and the write.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	s.events.Publish(newSessionEvent(models.EventSessionStatusChanged, associationID, sessionID, map[string]string{
		"from": session.Status,
		"to":   updated.Status,
	}))
	return updated, nil
}

func (s *SessionService) GetDrillConfig(ctx context.Context, associationID, sessionID int64) (*models.SessionDrillConfig, error) {
	session, err := s.Get(ctx, associationID, sessionID)
	if err != nil {
		return nil, err
	}
	drills, err := s.sessionDrillRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	locked, err := s.scoreRepo.HasScores(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &models.SessionDrillConfig{
		SessionID: session.ID,
		Locked:    locked,
		Drills:    drills,
		Totals:    positionTotals(drills),
	}, nil
}

// ReplaceDrills validates and stores a full drill configuration. The session
// row lock serializes this against concurrent replaces and score entry
// checks; the lock trigger covers any writer that bypasses the service.
func (s *SessionService) ReplaceDrills(
	ctx context.Context,
	associationID int64,
	sessionID int64,
	drills []DrillWeightInput,
) (*models.SessionDrillConfig, error) {
	if err := ValidateDrillWeights(drills); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	session, err := repository.NewSessionRepository(tx).GetByIDForUpdate(ctx, associationID, sessionID)
	if err != nil {
		return nil, translateError(err, err)
	}
	if isTerminalStatus(session.Status) {
		return nil, ErrInvalidStateTransition
	}

	locked, err := repository.NewScoreRepository(tx).HasScores(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, ErrSessionLocked
	}

	if err := checkAssignableDrills(ctx, repository.NewDrillRepository(tx), associationID, drills); err != nil {
		return nil, err
	}

	if err := repository.NewSessionDrillRepository(tx).Replace(ctx, session.ID, toSessionDrillInputs(drills)); err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err, err)
	}

	config, err := s.GetDrillConfig(ctx, associationID, sessionID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(newSessionEvent(models.EventSessionDrillsUpdated, associationID, sessionID, config))
	return config, nil
}

// CloneToWave copies the source configuration onto every other live session
// of the same cohort and wave. Sessions that already have scores keep their
// configuration and are reported as skipped.
func (s *SessionService) CloneToWave(ctx context.Context, associationID, sessionID int64) (*models.WaveCloneResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txSessionDrillRepo := repository.NewSessionDrillRepository(tx)
	txScoreRepo := repository.NewScoreRepository(tx)

	source, err := txSessionRepo.GetByIDForUpdate(ctx, associationID, sessionID)
	if err != nil {
		return nil, translateError(err, err)
	}

	configured, err := txSessionDrillRepo.ListBySession(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	if len(configured) == 0 {
		return nil, ErrInvalidInput
	}
	drills := make([]DrillWeightInput, 0, len(configured))
	for _, drill := range configured {
		drills = append(drills, DrillWeightInput{
			DrillID:       drill.DrillID,
			Position:      drill.Position,
			WeightPercent: drill.WeightPercent,
		})
	}
	if err := ValidateDrillWeights(drills); err != nil {
		return nil, err
	}
	if err := checkAssignableDrills(ctx, repository.NewDrillRepository(tx), associationID, drills); err != nil {
		return nil, err
	}

	siblings, err := txSessionRepo.ListWaveSiblingsForUpdate(ctx, source)
	if err != nil {
		return nil, err
	}
	siblingIDs := make([]int64, 0, len(siblings))
	for _, sibling := range siblings {
		siblingIDs = append(siblingIDs, sibling.ID)
	}
	scored, err := txScoreRepo.ScoredSessionIDs(ctx, siblingIDs)
	if err != nil {
		return nil, err
	}

	result := &models.WaveCloneResult{
		SourceSessionID:         source.ID,
		WaveNumber:              source.WaveNumber,
		UpdatedSessionIDs:       make([]int64, 0, len(siblings)),
		SkippedLockedSessionIDs: make([]int64, 0),
	}
	inputs := toSessionDrillInputs(drills)
	for _, sibling := range siblings {
		if scored[sibling.ID] {
			result.SkippedLockedSessionIDs = append(result.SkippedLockedSessionIDs, sibling.ID)
			continue
		}
		if err := txSessionDrillRepo.Replace(ctx, sibling.ID, inputs); err != nil {
			return nil, translateError(err, ErrInvalidInput)
		}
		result.UpdatedSessionIDs = append(result.UpdatedSessionIDs, sibling.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err, err)
	}

	s.logger.Info("cloned drill configuration to wave",
		zap.Int64("association_id", associationID),
		zap.Int64("source_session_id", source.ID),
		zap.Int("wave_number", source.WaveNumber),
		zap.Int("updated", len(result.UpdatedSessionIDs)),
		zap.Int("skipped_locked", len(result.SkippedLockedSessionIDs)),
	)
	s.events.Publish(newSessionEvent(models.EventWaveCloned, associationID, source.ID, result))
	return result, nil
}

type drillLookup interface {
	GetByIDs(ctx context.Context, associationID int64, ids []int64) (map[int64]models.Drill, error)
}

func checkAssignableDrills(ctx context.Context, drillRepo drillLookup, associationID int64, drills []DrillWeightInput) error {
	if len(drills) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(drills))
	for _, drill := range drills {
		ids = append(ids, drill.DrillID)
	}
	found, err := drillRepo.GetByIDs(ctx, associationID, ids)
	if err != nil {
		return err
	}

	issues := make([]DrillWeightIssue, 0)
	for _, input := range drills {
		drill, ok := found[input.DrillID]
		switch {
		case !ok:
			issues = append(issues, DrillWeightIssue{
				Position: input.Position,
				DrillID:  input.DrillID,
				Message:  fmt.Sprintf("drill %d does not exist", input.DrillID),
			})
		case !drill.IsActive:
			issues = append(issues, DrillWeightIssue{
				Position: input.Position,
				DrillID:  input.DrillID,
				Message:  fmt.Sprintf("drill %q is inactive", drill.Name),
			})
		}
	}
	if len(issues) > 0 {
		return &DrillWeightError{Issues: issues}
	}
	return nil
}

func toSessionDrillInputs(drills []DrillWeightInput) []repository.SessionDrillInput {
	inputs := make([]repository.SessionDrillInput, 0, len(drills))
	for _, drill := range drills {
		inputs = append(inputs, repository.SessionDrillInput{
			DrillID:       drill.DrillID,
			Position:      drill.Position,
			WeightPercent: drill.WeightPercent,
		})
	}
	return inputs
}

func isSessionStatus(status string) bool {
	switch status {
	case models.SessionStatusScheduled, models.SessionStatusInProgress,
		models.SessionStatusCompleted, models.SessionStatusCancelled:
		return true
	default:
		return false
	}
}

func isTerminalStatus(status string) bool {
	return status == models.SessionStatusCompleted || status == models.SessionStatusCancelled
}

func normalizeRequestedStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "scheduled":
		return models.SessionStatusScheduled, nil
	case "start", "started", "in_progress", "in-progress":
		return models.SessionStatusInProgress, nil
	case "complete", "completed":
		return models.SessionStatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.SessionStatusCancelled, nil
	default:
		return "", ErrInvalidInput
	}
}

func validateStatusTransition(current, next string) error {
	switch current {
	case models.SessionStatusScheduled:
		if next == models.SessionStatusInProgress || next == models.SessionStatusCancelled {
			return nil
		}
	case models.SessionStatusInProgress:
		if next == models.SessionStatusCompleted || next == models.SessionStatusCancelled {
			return nil
		}
	}
	return ErrInvalidStateTransition
}
