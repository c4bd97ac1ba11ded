package models

import "time"

const (
	CohortStatusActive   = "active"
	CohortStatusArchived = "archived"
)

type Cohort struct {
	ID            int64     `json:"id"`
	AssociationID int64     `json:"association_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Season        *string   `json:"season"`
	Status        string    `json:"status"`
	PlayerCount   int       `json:"player_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
