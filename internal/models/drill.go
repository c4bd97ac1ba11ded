package models

import "time"

type Drill struct {
	ID            int64     `json:"id"`
	AssociationID int64     `json:"association_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"`
	Instructions  *string   `json:"instructions"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
