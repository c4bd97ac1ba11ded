package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
)

const (
	MinScoreValue = 0
	MaxScoreValue = 10
)

type sessionReader interface {
	GetByID(ctx context.Context, associationID, sessionID int64) (*models.Session, error)
}

type sessionDrillLister interface {
	ListBySession(ctx context.Context, sessionID int64) ([]models.SessionDrill, error)
}

type scoreStore interface {
	Upsert(ctx context.Context, input repository.ScoreInput) (*models.Score, error)
	ListBySession(ctx context.Context, sessionID int64) ([]models.Score, error)
	HasScores(ctx context.Context, sessionID int64) (bool, error)
}

type playerReader interface {
	GetByID(ctx context.Context, associationID, id int64) (*models.Player, error)
	List(ctx context.Context, filter repository.PlayerListFilter) ([]models.Player, int, error)
}

// scoreTx is what Record needs from one transaction that holds the session lock.
type scoreTx interface {
	LockSession(ctx context.Context, associationID, sessionID int64) (*models.Session, error)
	SessionDrills(ctx context.Context, sessionID int64) ([]models.SessionDrill, error)
	HasScores(ctx context.Context, sessionID int64) (bool, error)
	Upsert(ctx context.Context, input repository.ScoreInput) (*models.Score, error)
}

type scoreTxRunner interface {
	RunScoreTx(ctx context.Context, fn func(tx scoreTx) error) error
}

type pgScoreTxRunner struct {
	db txBeginner
}

func (r pgScoreTxRunner) RunScoreTx(ctx context.Context, fn func(tx scoreTx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(pgScoreTx{
		sessions:      repository.NewSessionRepository(tx),
		sessionDrills: repository.NewSessionDrillRepository(tx),
		scores:        repository.NewScoreRepository(tx),
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgScoreTx struct {
	sessions      *repository.SessionRepository
	sessionDrills *repository.SessionDrillRepository
	scores        *repository.ScoreRepository
}

func (t pgScoreTx) LockSession(ctx context.Context, associationID, sessionID int64) (*models.Session, error) {
	return t.sessions.GetByIDForScoring(ctx, associationID, sessionID)
}

func (t pgScoreTx) SessionDrills(ctx context.Context, sessionID int64) ([]models.SessionDrill, error) {
	return t.sessionDrills.ListBySession(ctx, sessionID)
}

func (t pgScoreTx) HasScores(ctx context.Context, sessionID int64) (bool, error) {
	return t.scores.HasScores(ctx, sessionID)
}

func (t pgScoreTx) Upsert(ctx context.Context, input repository.ScoreInput) (*models.Score, error) {
	return t.scores.Upsert(ctx, input)
}

type ScoreService struct {
	writes        scoreTxRunner
	sessions      sessionReader
	sessionDrills sessionDrillLister
	scores        scoreStore
	players       playerReader
	events        EventPublisher
}

func NewScoreService(
	db txBeginner,
	sessions sessionReader,
	sessionDrills sessionDrillLister,
	scores scoreStore,
	players playerReader,
	events EventPublisher,
) *ScoreService {
	return &ScoreService{
		writes:        pgScoreTxRunner{db: db},
		sessions:      sessions,
		sessionDrills: sessionDrills,
		scores:        scores,
		players:       players,
		events:        publisherOrNoop(events),
	}
}

type RecordScoreInput struct {
	PlayerID int64
	DrillID  int64
	Value    float64
	Notes    *string
}

// Record stores the actor's score for one player and drill. A repeat
// submission by the same evaluator replaces the earlier value. The session
// row stays locked from the drill check to the upsert, so a concurrent
// ReplaceDrills or first score waits for this one.
func (s *ScoreService) Record(
	ctx context.Context,
	actor Actor,
	associationID int64,
	sessionID int64,
	input RecordScoreInput,
) (*models.Score, error) {
	if math.IsNaN(input.Value) || input.Value < MinScoreValue || input.Value > MaxScoreValue {
		return nil, ErrInvalidInput
	}

	var (
		score     *models.Score
		wasLocked bool
	)
	err := s.writes.RunScoreTx(ctx, func(tx scoreTx) error {
		session, err := tx.LockSession(ctx, associationID, sessionID)
		if err != nil {
			return translateError(err, err)
		}
		if isTerminalStatus(session.Status) {
			return ErrInvalidStateTransition
		}

		player, err := s.players.GetByID(ctx, associationID, input.PlayerID)
		if err != nil {
			err = translateError(err, err)
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidInput
			}
			return err
		}
		if player.CohortID != session.CohortID {
			return ErrInvalidInput
		}

		drills, err := tx.SessionDrills(ctx, session.ID)
		if err != nil {
			return err
		}
		if !drillConfiguredFor(drills, input.DrillID, player.Position) {
			return ErrInvalidInput
		}

		wasLocked, err = tx.HasScores(ctx, session.ID)
		if err != nil {
			return err
		}

		score, err = tx.Upsert(ctx, repository.ScoreInput{
			SessionID:   session.ID,
			PlayerID:    player.ID,
			DrillID:     input.DrillID,
			EvaluatorID: actor.UserID,
			Value:       input.Value,
			Notes:       trimOptional(input.Notes),
		})
		if err != nil {
			return translateError(err, ErrInvalidInput)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(newSessionEvent(models.EventScoreRecorded, associationID, sessionID, score))
	if !wasLocked {
		s.events.Publish(newSessionEvent(models.EventSessionLocked, associationID, sessionID, nil))
	}
	return score, nil
}

func (s *ScoreService) List(ctx context.Context, associationID, sessionID int64) ([]models.Score, error) {
	session, err := s.sessions.GetByID(ctx, associationID, sessionID)
	if err != nil {
		return nil, translateError(err, err)
	}
	return s.scores.ListBySession(ctx, session.ID)
}

// Results ranks every player of the session's cohort by weighted total.
func (s *ScoreService) Results(ctx context.Context, associationID, sessionID int64) ([]models.PlayerResult, error) {
	session, err := s.sessions.GetByID(ctx, associationID, sessionID)
	if err != nil {
		return nil, translateError(err, err)
	}
	drills, err := s.sessionDrills.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	scores, err := s.scores.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	players, _, err := s.players.List(ctx, repository.PlayerListFilter{
		AssociationID: associationID,
		CohortID:      session.CohortID,
	})
	if err != nil {
		return nil, err
	}
	return computeResults(players, drills, scores), nil
}

func drillConfiguredFor(drills []models.SessionDrill, drillID int64, position string) bool {
	for _, drill := range drills {
		if drill.DrillID == drillID && drill.Position == position {
			return true
		}
	}
	return false
}

type scoreKey struct {
	playerID int64
	drillID  int64
}

type scoreSum struct {
	total float64
	count int
}

func computeResults(players []models.Player, drills []models.SessionDrill, scores []models.Score) []models.PlayerResult {
	sums := make(map[scoreKey]*scoreSum)
	for _, score := range scores {
		key := scoreKey{playerID: score.PlayerID, drillID: score.DrillID}
		sum, ok := sums[key]
		if !ok {
			sum = &scoreSum{}
			sums[key] = sum
		}
		sum.total += score.Value
		sum.count++
	}

	drillsByPosition := make(map[string][]models.SessionDrill)
	for _, drill := range drills {
		drillsByPosition[drill.Position] = append(drillsByPosition[drill.Position], drill)
	}

	results := make([]models.PlayerResult, 0, len(players))
	for _, player := range players {
		result := models.PlayerResult{
			PlayerID:     player.ID,
			FirstName:    player.FirstName,
			LastName:     player.LastName,
			Position:     player.Position,
			JerseyNumber: player.JerseyNumber,
			Drills:       make([]models.DrillResult, 0),
		}

		var total float64
		for _, drill := range drillsByPosition[player.Position] {
			drillResult := models.DrillResult{
				DrillID:       drill.DrillID,
				WeightPercent: drill.WeightPercent,
			}
			if sum, ok := sums[scoreKey{playerID: player.ID, drillID: drill.DrillID}]; ok {
				average := sum.total / float64(sum.count)
				weighted := average * float64(drill.WeightPercent) / 100
				drillResult.AverageScore = roundScore(average)
				drillResult.EvaluatorCount = sum.count
				drillResult.WeightedScore = roundScore(weighted)
				total += weighted
			}
			result.Drills = append(result.Drills, drillResult)
		}
		result.WeightedTotal = roundScore(total)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Position != b.Position {
			return positionIndex(a.Position) < positionIndex(b.Position)
		}
		if a.WeightedTotal != b.WeightedTotal {
			return a.WeightedTotal > b.WeightedTotal
		}
		if !strings.EqualFold(a.LastName, b.LastName) {
			return strings.ToLower(a.LastName) < strings.ToLower(b.LastName)
		}
		return a.PlayerID < b.PlayerID
	})

	// Equal totals share a rank within a position (1, 1, 3).
	for i := range results {
		switch {
		case i == 0 || results[i].Position != results[i-1].Position:
			results[i].Rank = 1
		case results[i].WeightedTotal == results[i-1].WeightedTotal:
			results[i].Rank = results[i-1].Rank
		default:
			rank := 1
			for j := i - 1; j >= 0 && results[j].Position == results[i].Position; j-- {
				rank++
			}
			results[i].Rank = rank
		}
	}
	return results
}

func roundScore(value float64) float64 {
	return math.Round(value*100) / 100
}
