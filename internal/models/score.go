package models

import "time"

type Score struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"session_id"`
	PlayerID    int64     `json:"player_id"`
	DrillID     int64     `json:"drill_id"`
	EvaluatorID int64     `json:"evaluator_id"`
	Value       float64   `json:"value"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DrillResult struct {
	DrillID        int64   `json:"drill_id"`
	WeightPercent  int     `json:"weight_percent"`
	AverageScore   float64 `json:"average_score"`
	EvaluatorCount int     `json:"evaluator_count"`
	WeightedScore  float64 `json:"weighted_score"`
}

type PlayerResult struct {
	PlayerID      int64         `json:"player_id"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Position      string        `json:"position"`
	JerseyNumber  *int          `json:"jersey_number"`
	WeightedTotal float64       `json:"weighted_total"`
	Rank          int           `json:"rank"`
	Drills        []DrillResult `json:"drills"`
}
