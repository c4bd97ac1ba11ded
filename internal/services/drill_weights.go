package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const (
	MaxDrillsPerPosition = 4
	RequiredWeightTotal  = 100
)

type DrillWeightInput struct {
	DrillID       int64  `json:"drill_id"`
	Position      string `json:"position"`
	WeightPercent int    `json:"weight_percent"`
}

type DrillWeightIssue struct {
	Position string `json:"position"`
	DrillID  int64  `json:"drill_id,omitempty"`
	Message  string `json:"message"`
}

type DrillWeightError struct {
	Issues []DrillWeightIssue `json:"issues"`
}

func (e *DrillWeightError) Error() string {
	messages := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Position == "" {
			messages = append(messages, issue.Message)
			continue
		}
		messages = append(messages, issue.Position+": "+issue.Message)
	}
	return "invalid drill weights: " + strings.Join(messages, "; ")
}

func (e *DrillWeightError) Unwrap() error {
	return ErrInvalidInput
}

// ValidateDrillWeights checks a full session configuration and returns every
// problem found, grouped by position in canonical order. Positions are
// normalized in place.
func ValidateDrillWeights(drills []DrillWeightInput) error {
	issues := make([]DrillWeightIssue, 0)
	byPosition := make(map[string][]DrillWeightInput)

	for i := range drills {
		drill := &drills[i]
		position, ok := models.NormalizePosition(drill.Position)
		if !ok {
			issues = append(issues, DrillWeightIssue{
				DrillID: drill.DrillID,
				Message: fmt.Sprintf("%q is not a known position", drill.Position),
			})
			continue
		}
		drill.Position = position
		byPosition[position] = append(byPosition[position], *drill)
	}

	for _, position := range models.Positions {
		entries, ok := byPosition[position]
		if !ok {
			continue
		}
		issues = append(issues, positionIssues(position, entries)...)
	}

	if len(issues) > 0 {
		return &DrillWeightError{Issues: issues}
	}
	return nil
}

func positionIssues(position string, entries []DrillWeightInput) []DrillWeightIssue {
	issues := make([]DrillWeightIssue, 0)

	if len(entries) > MaxDrillsPerPosition {
		issues = append(issues, DrillWeightIssue{
			Position: position,
			Message:  fmt.Sprintf("has %d drills, at most %d are allowed", len(entries), MaxDrillsPerPosition),
		})
	}

	total := 0
	seen := make(map[int64]bool, len(entries))
	for _, entry := range entries {
		if entry.DrillID <= 0 {
			issues = append(issues, DrillWeightIssue{Position: position, Message: "drill_id is required"})
		} else if seen[entry.DrillID] {
			issues = append(issues, DrillWeightIssue{
				Position: position,
				DrillID:  entry.DrillID,
				Message:  "drill is listed more than once",
			})
		}
		seen[entry.DrillID] = true

		if entry.WeightPercent < 1 || entry.WeightPercent > RequiredWeightTotal {
			issues = append(issues, DrillWeightIssue{
				Position: position,
				DrillID:  entry.DrillID,
				Message:  fmt.Sprintf("weight %d must be between 1 and %d", entry.WeightPercent, RequiredWeightTotal),
			})
		}
		total += entry.WeightPercent
	}

	if total != RequiredWeightTotal {
		issues = append(issues, DrillWeightIssue{
			Position: position,
			Message:  fmt.Sprintf("weights add up to %d, must be exactly %d", total, RequiredWeightTotal),
		})
	}
	return issues
}

// positionTotals summarizes a stored configuration for display.
func positionTotals(drills []models.SessionDrill) []models.PositionTotal {
	totals := make(map[string]*models.PositionTotal)
	for _, drill := range drills {
		total, ok := totals[drill.Position]
		if !ok {
			total = &models.PositionTotal{Position: drill.Position}
			totals[drill.Position] = total
		}
		total.DrillCount++
		total.WeightPercent += drill.WeightPercent
	}

	result := make([]models.PositionTotal, 0, len(totals))
	for _, total := range totals {
		result = append(result, *total)
	}
	sort.Slice(result, func(i, j int) bool {
		return positionIndex(result[i].Position) < positionIndex(result[j].Position)
	})
	return result
}

func positionIndex(position string) int {
	for i, p := range models.Positions {
		if p == position {
			return i
		}
	}
	return len(models.Positions)
}
