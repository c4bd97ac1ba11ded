package repository

import (
	"context"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

type SessionDrillInput struct {
	DrillID       int64
	Position      string
	WeightPercent int
}

type SessionDrillRepository struct {
	db DBTX
}

func NewSessionDrillRepository(db DBTX) *SessionDrillRepository {
	return &SessionDrillRepository{db: db}
}

func (r *SessionDrillRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.SessionDrill, error) {
	query := `
		SELECT sd.id, sd.session_id, sd.drill_id, d.name, sd.position, sd.weight_percent, sd.sort_order
		FROM session_drills sd
		JOIN drills d ON d.id = sd.drill_id
		WHERE sd.session_id = $1
		ORDER BY sd.position ASC, sd.sort_order ASC, sd.id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drills := make([]models.SessionDrill, 0)
	for rows.Next() {
		var drill models.SessionDrill
		if err := rows.Scan(
			&drill.ID,
			&drill.SessionID,
			&drill.DrillID,
			&drill.DrillName,
			&drill.Position,
			&drill.WeightPercent,
			&drill.SortOrder,
		); err != nil {
			return nil, err
		}
		drills = append(drills, drill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return drills, nil
}

// Replace swaps the whole configuration of a session. Callers run it inside
// a transaction; the lock trigger rejects it once scores exist.
func (r *SessionDrillRepository) Replace(ctx context.Context, sessionID int64, drills []SessionDrillInput) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM session_drills WHERE session_id = $1`, sessionID); err != nil {
		return err
	}

	query := `
		INSERT INTO session_drills (session_id, drill_id, position, weight_percent, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, drill := range drills {
		if _, err := r.db.Exec(ctx, query, sessionID, drill.DrillID, drill.Position, drill.WeightPercent, i+1); err != nil {
			return err
		}
	}
	return nil
}
