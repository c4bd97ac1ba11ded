package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRequiresAdminOfAssociation(t *testing.T) {
	service := NewImportService(nil, nil, nil, nil, nil, nil, nil, ImportOptions{})
	associationID := int64(3)
	otherID := int64(4)

	cases := []Actor{
		{UserID: 1, Role: models.RoleEvaluator, AssociationID: &associationID},
		{UserID: 2, Role: models.RoleAssociationAdmin, AssociationID: &otherID},
	}
	for _, actor := range cases {
		_, err := service.Import(context.Background(), actor, associationID, ImportRequest{Kind: models.ImportKindPlayers})
		assert.ErrorIs(t, err, ErrForbidden)
	}
}

func TestImportRowsErrorKeepsReport(t *testing.T) {
	result := &ImportResult{Kind: models.ImportKindSessions, Report: "report"}
	var err error = &ImportRowsError{Result: result}

	assert.ErrorIs(t, err, ErrImportHasErrors)
	var rowsErr *ImportRowsError
	require.True(t, errors.As(err, &rowsErr))
	assert.Same(t, result, rowsErr.Result)
}

func TestImportObjectPathAndFilename(t *testing.T) {
	objectPath := buildImportObjectPath(7, models.ImportKindPlayers)
	assert.True(t, strings.HasPrefix(objectPath, "imports/7/players-"), objectPath)
	assert.True(t, strings.HasSuffix(objectPath, ".csv"), objectPath)

	assert.Equal(t, "roster.csv", cleanFilename("  ../../tmp/roster.csv "))
	assert.Equal(t, "upload.csv", cleanFilename(""))
}
