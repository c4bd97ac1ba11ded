package models

import "time"

const (
	SessionStatusScheduled  = "scheduled"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCancelled  = "cancelled"
)

type Session struct {
	ID              int64     `json:"id"`
	AssociationID   int64     `json:"association_id"`
	CohortID        int64     `json:"cohort_id"`
	Name            string    `json:"name"`
	WaveNumber      int       `json:"wave_number"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        *string   `json:"location"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SessionDrill struct {
	ID            int64  `json:"id"`
	SessionID     int64  `json:"session_id"`
	DrillID       int64  `json:"drill_id"`
	DrillName     string `json:"drill_name"`
	Position      string `json:"position"`
	WeightPercent int    `json:"weight_percent"`
	SortOrder     int    `json:"sort_order"`
}

type PositionTotal struct {
	Position      string `json:"position"`
	DrillCount    int    `json:"drill_count"`
	WeightPercent int    `json:"weight_percent"`
}

type SessionDrillConfig struct {
	SessionID int64           `json:"session_id"`
	Locked    bool            `json:"locked"`
	Drills    []SessionDrill  `json:"drills"`
	Totals    []PositionTotal `json:"totals"`
}

type WaveCloneResult struct {
	SourceSessionID         int64   `json:"source_session_id"`
	WaveNumber              int     `json:"wave_number"`
	UpdatedSessionIDs       []int64 `json:"updated_session_ids"`
	SkippedLockedSessionIDs []int64 `json:"skipped_locked_session_ids"`
}
