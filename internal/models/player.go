package models

import "time"

type Player struct {
	ID            int64     `json:"id"`
	AssociationID int64     `json:"association_id"`
	CohortID      int64     `json:"cohort_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	BirthDate     time.Time `json:"birth_date"`
	Position      string    `json:"position"`
	JerseyNumber  *int      `json:"jersey_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
