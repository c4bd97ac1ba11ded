package models

import "time"

const (
	ImportKindPlayers  = "players"
	ImportKindSessions = "sessions"
)

type CSVImport struct {
	ID            int64     `json:"id"`
	AssociationID int64     `json:"association_id"`
	Kind          string    `json:"kind"`
	Filename      string    `json:"filename"`
	FileURL       *string   `json:"file_url,omitempty"`
	TotalRows     int       `json:"total_rows"`
	ImportedRows  int       `json:"imported_rows"`
	SkippedRows   int       `json:"skipped_rows"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
