package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssociationCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	suffix := time.Now().UnixNano() % 100000000
	service := NewAssociationService(pool, repository.NewAssociationRepository(pool))
	superadmin := Actor{Role: models.RoleSuperadmin}
	adminEmail := fmt.Sprintf("first-admin-%d@example.com", suffix)

	first, err := service.Create(ctx, superadmin, repository.AssociationInput{
		Name:         fmt.Sprintf("Atomic %d", suffix),
		Abbreviation: fmt.Sprintf("a%d", suffix),
	}, &InitialAdminInput{Email: adminEmail, Password: "integration-pass", FullName: "First"})
	require.NoError(t, err)
	t.Cleanup(func() { cleanupAssociation(t, pool, first.Association.ID) })
	assert.Equal(t, fmt.Sprintf("A%d", suffix), first.Association.Abbreviation)
	require.NotNil(t, first.Admin.AssociationID)
	assert.Equal(t, first.Association.ID, *first.Admin.AssociationID)

	_, err = service.Create(ctx, superadmin, repository.AssociationInput{
		Name:         fmt.Sprintf("Atomic copy %d", suffix),
		Abbreviation: fmt.Sprintf("A%d", suffix),
	}, nil)
	assert.ErrorIs(t, err, ErrConflict)

	// The admin email is taken, so the association insert must roll back too.
	orphanName := fmt.Sprintf("Orphan %d", suffix)
	_, err = service.Create(ctx, superadmin, repository.AssociationInput{
		Name:         orphanName,
		Abbreviation: fmt.Sprintf("B%d", suffix),
	}, &InitialAdminInput{Email: adminEmail, Password: "integration-pass", FullName: "Second"})
	assert.ErrorIs(t, err, ErrConflict)

	_, total, err := service.List(ctx, superadmin, repository.AssociationListFilter{
		ListOptions: repository.ListOptions{Search: orphanName, Limit: 10},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCohortAndDrillDeleteRefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	fx := newIntegrationFixture(t, ctx)
	cohorts := NewCohortService(repository.NewCohortRepository(fx.pool))
	drills := NewDrillService(repository.NewDrillRepository(fx.pool))

	// The fixture player sits in the fixture cohort.
	assert.ErrorIs(t, cohorts.Delete(ctx, fx.associationID, fx.cohortID), ErrInUse)

	_, err := cohorts.Create(ctx, fx.associationID, repository.CohortInput{Name: "u13 aa"})
	assert.ErrorIs(t, err, ErrConflict)

	empty, err := cohorts.Create(ctx, fx.associationID, repository.CohortInput{Name: "U15 B"})
	require.NoError(t, err)
	require.NoError(t, cohorts.Delete(ctx, fx.associationID, empty.ID))

	session := fx.createSession(t, ctx, "Delete check", 1)
	_, err = fx.sessions.ReplaceDrills(ctx, fx.associationID, session.ID, []DrillWeightInput{
		{DrillID: fx.drillIDs[0], Position: "forward", WeightPercent: 100},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, drills.Delete(ctx, fx.associationID, fx.drillIDs[0]), ErrInUse)
	require.NoError(t, drills.Delete(ctx, fx.associationID, fx.drillIDs[1]))

	_, err = drills.Create(ctx, fx.associationID, repository.DrillInput{Name: "EDGES", IsActive: true})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPlayerCohortAndListFilters(t *testing.T) {
	ctx := context.Background()
	fx := newIntegrationFixture(t, ctx)
	other := newIntegrationFixture(t, ctx)
	players := NewPlayerService(repository.NewPlayerRepository(fx.pool), repository.NewCohortRepository(fx.pool))

	birthDate := time.Date(2012, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := players.Create(ctx, fx.associationID, repository.PlayerInput{
		CohortID:  other.cohortID,
		FirstName: "Wrong",
		LastName:  "Tenant",
		BirthDate: birthDate,
		Position:  "goalie",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	jersey := 31
	goalie, err := players.Create(ctx, fx.associationID, repository.PlayerInput{
		CohortID:     fx.cohortID,
		FirstName:    "Casey",
		LastName:     "Netminder",
		BirthDate:    birthDate,
		Position:     "G",
		JerseyNumber: &jersey,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PositionGoalie, goalie.Position)

	list := func(filter repository.PlayerListFilter) []int64 {
		t.Helper()
		filter.AssociationID = fx.associationID
		filter.Limit = 50
		found, _, err := players.List(ctx, filter)
		require.NoError(t, err)
		ids := make([]int64, 0, len(found))
		for _, player := range found {
			ids = append(ids, player.ID)
		}
		return ids
	}

	assert.ElementsMatch(t, []int64{fx.playerID, goalie.ID}, list(repository.PlayerListFilter{CohortID: fx.cohortID}))
	assert.Equal(t, []int64{goalie.ID}, list(repository.PlayerListFilter{Position: "goalkeeper"}))
	assert.Equal(t, []int64{fx.playerID}, list(repository.PlayerListFilter{ListOptions: repository.ListOptions{Search: "skat"}}))
	assert.Equal(t, []int64{goalie.ID}, list(repository.PlayerListFilter{ListOptions: repository.ListOptions{Search: "31"}}))
	assert.Empty(t, list(repository.PlayerListFilter{CohortID: other.cohortID}))
}
