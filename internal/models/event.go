package models

import "time"

const (
	EventScoreRecorded        = "score_recorded"
	EventSessionLocked        = "session_locked"
	EventSessionDrillsUpdated = "session_drills_updated"
	EventWaveCloned           = "wave_cloned"
	EventSessionStatusChanged = "session_status_changed"
)

// SessionEvent is pushed to console clients watching an association.
type SessionEvent struct {
	Type          string    `json:"type"`
	AssociationID int64     `json:"association_id"`
	SessionID     int64     `json:"session_id,omitempty"`
	Payload       any       `json:"payload,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
