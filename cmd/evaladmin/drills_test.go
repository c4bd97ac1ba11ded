package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDrillCatalog(t *testing.T) {
	f, err := os.Open("testdata/drills.yaml")
	require.NoError(t, err)
	defer f.Close()

	inputs, err := parseDrillCatalog(f)
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	assert.Equal(t, "Forward Crossovers", inputs[0].Name)
	require.NotNil(t, inputs[0].Category)
	assert.Equal(t, "Skating", *inputs[0].Category)
	assert.Nil(t, inputs[0].Instructions)
	assert.True(t, inputs[0].IsActive)

	require.NotNil(t, inputs[1].Instructions)
	assert.Nil(t, inputs[1].Description)

	assert.False(t, inputs[2].IsActive)
}

func TestParseDrillCatalogRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"missing name", "drills:\n  - category: skating\n", "name is required"},
		{"duplicate", "drills:\n  - name: Stops\n  - name: stops\n", "duplicates drill 1"},
		{"unknown field", "drills:\n  - name: Stops\n    weight: 3\n", "weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDrillCatalog(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
