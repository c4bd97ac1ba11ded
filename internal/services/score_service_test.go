package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionReader struct {
	session *models.Session
	err     error
}

func (r *stubSessionReader) GetByID(_ context.Context, _, _ int64) (*models.Session, error) {
	return r.session, r.err
}

type stubSessionDrills struct {
	drills []models.SessionDrill
}

func (r *stubSessionDrills) ListBySession(_ context.Context, _ int64) ([]models.SessionDrill, error) {
	return r.drills, nil
}

type stubScoreStore struct {
	hasScores  bool
	scores     []models.Score
	lastUpsert repository.ScoreInput
	upserts    int
}

func (r *stubScoreStore) Upsert(_ context.Context, input repository.ScoreInput) (*models.Score, error) {
	r.lastUpsert = input
	r.upserts++
	return &models.Score{
		ID:          int64(r.upserts),
		SessionID:   input.SessionID,
		PlayerID:    input.PlayerID,
		DrillID:     input.DrillID,
		EvaluatorID: input.EvaluatorID,
		Value:       input.Value,
	}, nil
}

func (r *stubScoreStore) ListBySession(_ context.Context, _ int64) ([]models.Score, error) {
	return r.scores, nil
}

func (r *stubScoreStore) HasScores(_ context.Context, _ int64) (bool, error) {
	return r.hasScores, nil
}

type stubPlayerReader struct {
	players map[int64]models.Player
}

func (r *stubPlayerReader) GetByID(_ context.Context, _ int64, id int64) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &player, nil
}

func (r *stubPlayerReader) List(_ context.Context, filter repository.PlayerListFilter) ([]models.Player, int, error) {
	players := make([]models.Player, 0)
	for _, player := range r.players {
		if player.CohortID == filter.CohortID {
			players = append(players, player)
		}
	}
	return players, len(players), nil
}

// stubScoreTx runs Record's transaction body directly against the stubs.
type stubScoreTx struct {
	sessions *stubSessionReader
	drills   *stubSessionDrills
	scores   *stubScoreStore
	runs     int
}

func (t *stubScoreTx) RunScoreTx(_ context.Context, fn func(tx scoreTx) error) error {
	t.runs++
	return fn(t)
}

func (t *stubScoreTx) LockSession(ctx context.Context, associationID, sessionID int64) (*models.Session, error) {
	return t.sessions.GetByID(ctx, associationID, sessionID)
}

func (t *stubScoreTx) SessionDrills(ctx context.Context, sessionID int64) ([]models.SessionDrill, error) {
	return t.drills.ListBySession(ctx, sessionID)
}

func (t *stubScoreTx) HasScores(ctx context.Context, sessionID int64) (bool, error) {
	return t.scores.HasScores(ctx, sessionID)
}

func (t *stubScoreTx) Upsert(ctx context.Context, input repository.ScoreInput) (*models.Score, error) {
	return t.scores.Upsert(ctx, input)
}

type recordingPublisher struct {
	events []models.SessionEvent
}

func (p *recordingPublisher) Publish(event models.SessionEvent) {
	p.events = append(p.events, event)
}

func newScoreFixture(status string) (*ScoreService, *stubScoreStore, *recordingPublisher) {
	sessions := &stubSessionReader{session: &models.Session{ID: 10, AssociationID: 1, CohortID: 5, Status: status}}
	drills := &stubSessionDrills{drills: []models.SessionDrill{
		{DrillID: 100, Position: models.PositionForward, WeightPercent: 60},
		{DrillID: 101, Position: models.PositionForward, WeightPercent: 40},
		{DrillID: 200, Position: models.PositionGoalie, WeightPercent: 100},
	}}
	scores := &stubScoreStore{}
	events := &recordingPublisher{}
	service := NewScoreService(
		nil,
		sessions,
		drills,
		scores,
		&stubPlayerReader{players: map[int64]models.Player{
			1: {ID: 1, CohortID: 5, Position: models.PositionForward},
			2: {ID: 2, CohortID: 9, Position: models.PositionForward},
		}},
		events,
	)
	service.writes = &stubScoreTx{sessions: sessions, drills: drills, scores: scores}
	return service, scores, events
}

func TestScoreServiceRecordLocksOnFirstScore(t *testing.T) {
	service, scores, events := newScoreFixture(models.SessionStatusInProgress)
	actor := Actor{UserID: 42, Role: models.RoleEvaluator}

	score, err := service.Record(context.Background(), actor, 1, 10, RecordScoreInput{PlayerID: 1, DrillID: 100, Value: 7.5})
	require.NoError(t, err)

	assert.Equal(t, int64(42), scores.lastUpsert.EvaluatorID)
	assert.Equal(t, 7.5, score.Value)
	require.Len(t, events.events, 2)
	assert.Equal(t, models.EventScoreRecorded, events.events[0].Type)
	assert.Equal(t, models.EventSessionLocked, events.events[1].Type)

	scores.hasScores = true
	_, err = service.Record(context.Background(), actor, 1, 10, RecordScoreInput{PlayerID: 1, DrillID: 101, Value: 10})
	require.NoError(t, err)
	assert.Len(t, events.events, 3)
}

func TestScoreServiceRecordRejectsInvalidScores(t *testing.T) {
	service, scores, _ := newScoreFixture(models.SessionStatusScheduled)
	actor := Actor{UserID: 42, Role: models.RoleEvaluator}
	ctx := context.Background()

	cases := map[string]RecordScoreInput{
		"value above range":        {PlayerID: 1, DrillID: 100, Value: 10.5},
		"negative value":           {PlayerID: 1, DrillID: 100, Value: -1},
		"unknown player":           {PlayerID: 99, DrillID: 100, Value: 5},
		"player in other cohort":   {PlayerID: 2, DrillID: 100, Value: 5},
		"drill for other position": {PlayerID: 1, DrillID: 200, Value: 5},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.Record(ctx, actor, 1, 10, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, scores.upserts)
}

func TestScoreServiceRecordRejectsClosedSessions(t *testing.T) {
	for _, status := range []string{models.SessionStatusCompleted, models.SessionStatusCancelled} {
		service, _, _ := newScoreFixture(status)
		_, err := service.Record(context.Background(), Actor{UserID: 1}, 1, 10, RecordScoreInput{PlayerID: 1, DrillID: 100, Value: 5})
		assert.ErrorIs(t, err, ErrInvalidStateTransition, status)
	}
}

func TestComputeResultsWeightsAndRanks(t *testing.T) {
	players := []models.Player{
		{ID: 1, LastName: "Able", Position: models.PositionForward},
		{ID: 2, LastName: "Baker", Position: models.PositionForward},
		{ID: 3, LastName: "Cole", Position: models.PositionForward},
		{ID: 4, LastName: "Dunn", Position: models.PositionGoalie},
		{ID: 5, LastName: "Enns", Position: models.PositionForward},
	}
	drills := []models.SessionDrill{
		{DrillID: 100, Position: models.PositionForward, WeightPercent: 60},
		{DrillID: 101, Position: models.PositionForward, WeightPercent: 40},
		{DrillID: 200, Position: models.PositionGoalie, WeightPercent: 100},
	}
	scores := []models.Score{
		{PlayerID: 1, DrillID: 100, Value: 6},
		{PlayerID: 1, DrillID: 100, Value: 8},
		{PlayerID: 1, DrillID: 101, Value: 5},
		{PlayerID: 2, DrillID: 100, Value: 9},
		{PlayerID: 2, DrillID: 101, Value: 9},
		{PlayerID: 3, DrillID: 100, Value: 7},
		{PlayerID: 3, DrillID: 101, Value: 5},
		{PlayerID: 4, DrillID: 200, Value: 8},
	}

	results := computeResults(players, drills, scores)
	require.Len(t, results, 5)

	ids := make([]int64, 0, len(results))
	ranks := make([]int, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.PlayerID)
		ranks = append(ranks, result.Rank)
	}
	assert.Equal(t, []int64{2, 1, 3, 5, 4}, ids)
	assert.Equal(t, []int{1, 2, 2, 4, 1}, ranks)

	// Player 1: avg(6, 8) * 0.6 + 5 * 0.4 = 6.2
	assert.Equal(t, 6.2, results[1].WeightedTotal)
	assert.Equal(t, 7.0, results[1].Drills[0].AverageScore)
	assert.Equal(t, 2, results[1].Drills[0].EvaluatorCount)
	assert.Equal(t, 6.2, results[2].WeightedTotal)

	assert.Equal(t, 0.0, results[3].WeightedTotal)
	assert.Len(t, results[3].Drills, 2)
	assert.Equal(t, 8.0, results[4].WeightedTotal)
}
