package services

import (
	"context"
	"testing"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatusTransition(t *testing.T) {
	allowed := [][2]string{
		{models.SessionStatusScheduled, models.SessionStatusInProgress},
		{models.SessionStatusScheduled, models.SessionStatusCancelled},
		{models.SessionStatusInProgress, models.SessionStatusCompleted},
		{models.SessionStatusInProgress, models.SessionStatusCancelled},
	}
	for _, pair := range allowed {
		assert.NoError(t, validateStatusTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	refused := [][2]string{
		{models.SessionStatusScheduled, models.SessionStatusCompleted},
		{models.SessionStatusInProgress, models.SessionStatusScheduled},
		{models.SessionStatusCompleted, models.SessionStatusCancelled},
		{models.SessionStatusCancelled, models.SessionStatusScheduled},
		{models.SessionStatusCompleted, models.SessionStatusInProgress},
	}
	for _, pair := range refused {
		assert.ErrorIs(t, validateStatusTransition(pair[0], pair[1]), ErrInvalidStateTransition, "%s -> %s", pair[0], pair[1])
	}
}

func TestNormalizeRequestedStatus(t *testing.T) {
	cases := map[string]string{
		"Start":       models.SessionStatusInProgress,
		"in-progress": models.SessionStatusInProgress,
		"complete":    models.SessionStatusCompleted,
		" canceled ":  models.SessionStatusCancelled,
	}
	for raw, want := range cases {
		got, err := normalizeRequestedStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := normalizeRequestedStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type stubDrillLookup struct {
	drills map[int64]models.Drill
}

func (s *stubDrillLookup) GetByIDs(_ context.Context, _ int64, ids []int64) (map[int64]models.Drill, error) {
	found := make(map[int64]models.Drill)
	for _, id := range ids {
		if drill, ok := s.drills[id]; ok {
			found[id] = drill
		}
	}
	return found, nil
}

func TestCheckAssignableDrills(t *testing.T) {
	lookup := &stubDrillLookup{drills: map[int64]models.Drill{
		1: {ID: 1, Name: "Crossovers", IsActive: true},
		2: {ID: 2, Name: "Old Drill", IsActive: false},
	}}

	err := checkAssignableDrills(context.Background(), lookup, 1, []DrillWeightInput{
		{DrillID: 1, Position: models.PositionForward, WeightPercent: 50},
		{DrillID: 2, Position: models.PositionForward, WeightPercent: 30},
		{DrillID: 3, Position: models.PositionForward, WeightPercent: 20},
	})

	issues := drillWeightIssues(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, `drill "Old Drill" is inactive`, issues[0].Message)
	assert.Equal(t, "drill 3 does not exist", issues[1].Message)

	assert.NoError(t, checkAssignableDrills(context.Background(), lookup, 1, nil))
}
