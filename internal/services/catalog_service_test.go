package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAssociationInput(t *testing.T) {
	email := "  Office@Club.CA "
	input, err := normalizeAssociationInput(repository.AssociationInput{
		Name:         "  North Shore Minor Hockey ",
		Abbreviation: " nsmh ",
		ContactEmail: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "North Shore Minor Hockey", input.Name)
	assert.Equal(t, "NSMH", input.Abbreviation)
	assert.Equal(t, defaultSport, input.Sport)
	require.NotNil(t, input.ContactEmail)
	assert.Equal(t, "office@club.ca", *input.ContactEmail)

	tests := []struct {
		name         string
		abbreviation string
		wantErr      bool
	}{
		{"too short", "n", true},
		{"two chars", "ns", false},
		{"ten chars", "abcdefghij", false},
		{"eleven chars", "abcdefghijk", true},
		{"ten accented chars", "éééééééééé", false},
		{"eleven accented chars", "ééééééééééé", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeAssociationInput(repository.AssociationInput{Name: "Club", Abbreviation: tt.abbreviation})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err = normalizeAssociationInput(repository.AssociationInput{Name: "   ", Abbreviation: "NS"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssociationCreateChecksBeforeWriting(t *testing.T) {
	// A nil db proves these paths return before a transaction is opened.
	service := NewAssociationService(nil, nil)
	ctx := context.Background()
	valid := repository.AssociationInput{Name: "Club", Abbreviation: "CL"}
	associationID := int64(3)

	_, err := service.Create(ctx, Actor{UserID: 2, Role: models.RoleAssociationAdmin, AssociationID: &associationID}, valid, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.Create(ctx, Actor{Role: models.RoleSuperadmin}, valid, &InitialAdminInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Create(ctx, Actor{Role: models.RoleSuperadmin}, valid, &InitialAdminInput{Email: "  ", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.SetStatus(ctx, Actor{Role: models.RoleSuperadmin}, 1, "paused")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeCohortInput(t *testing.T) {
	season := " 2026-27 "
	input, err := normalizeCohortInput(repository.CohortInput{Name: " U13 AA ", Season: &season})
	require.NoError(t, err)
	assert.Equal(t, "U13 AA", input.Name)
	assert.Equal(t, models.CohortStatusActive, input.Status)
	assert.Equal(t, "2026-27", *input.Season)

	input, err = normalizeCohortInput(repository.CohortInput{Name: "U15", Status: " Archived "})
	require.NoError(t, err)
	assert.Equal(t, models.CohortStatusArchived, input.Status)

	_, err = normalizeCohortInput(repository.CohortInput{Name: "U15", Status: "deleted"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = normalizeCohortInput(repository.CohortInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeDrillInput(t *testing.T) {
	category := " Skating "
	blank := "  "
	input, err := normalizeDrillInput(repository.DrillInput{Name: " Crossovers ", Category: &category, Description: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Crossovers", input.Name)
	assert.Equal(t, "skating", *input.Category)
	assert.Nil(t, input.Description)

	_, err = normalizeDrillInput(repository.DrillInput{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type stubCohorts map[int64]models.Cohort

func (s stubCohorts) GetByID(_ context.Context, associationID, id int64) (*models.Cohort, error) {
	cohort, ok := s[id]
	if !ok || cohort.AssociationID != associationID {
		return nil, pgx.ErrNoRows
	}
	return &cohort, nil
}

func TestPlayerNormalizeRequiresOwnCohort(t *testing.T) {
	cohorts := stubCohorts{
		5: {ID: 5, AssociationID: 1},
		6: {ID: 6, AssociationID: 2},
	}
	service := NewPlayerService(nil, cohorts)
	ctx := context.Background()
	base := repository.PlayerInput{
		CohortID:  5,
		FirstName: " Jamie ",
		LastName:  "Lee",
		BirthDate: time.Date(2013, 4, 2, 0, 0, 0, 0, time.UTC),
		Position:  "D",
	}

	input, err := service.normalize(ctx, 1, base)
	require.NoError(t, err)
	assert.Equal(t, "Jamie", input.FirstName)
	assert.Equal(t, models.PositionDefence, input.Position)

	other := base
	other.CohortID = 6
	_, err = service.normalize(ctx, 1, other)
	assert.ErrorIs(t, err, ErrInvalidInput)

	jersey := 100
	cases := map[string]func(*repository.PlayerInput){
		"missing cohort":   func(p *repository.PlayerInput) { p.CohortID = 0 },
		"unknown position": func(p *repository.PlayerInput) { p.Position = "winger" },
		"future birthday":  func(p *repository.PlayerInput) { p.BirthDate = time.Now().AddDate(1, 0, 0) },
		"jersey too high":  func(p *repository.PlayerInput) { p.JerseyNumber = &jersey },
		"blank last name":  func(p *repository.PlayerInput) { p.LastName = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := base
			mutate(&input)
			_, err := service.normalize(ctx, 1, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, _, err = service.List(ctx, repository.PlayerListFilter{AssociationID: 1, Position: "winger"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEnsureCohortPassesBackendErrors(t *testing.T) {
	boom := errors.New("connection reset")
	err := ensureCohort(context.Background(), failingCohorts{err: boom}, 1, 5)
	assert.ErrorIs(t, err, boom)
}

type failingCohorts struct {
	err error
}

func (f failingCohorts) GetByID(context.Context, int64, int64) (*models.Cohort, error) {
	return nil, f.err
}
