package repository

import (
	"context"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

type ScoreInput struct {
	SessionID   int64
	PlayerID    int64
	DrillID     int64
	EvaluatorID int64
	Value       float64
	Notes       *string
}

type ScoreRepository struct {
	db DBTX
}

func NewScoreRepository(db DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) Upsert(ctx context.Context, input ScoreInput) (*models.Score, error) {
	query := `
		INSERT INTO scores (session_id, player_id, drill_id, evaluator_id, value, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, player_id, drill_id, evaluator_id)
		DO UPDATE SET value = EXCLUDED.value, notes = EXCLUDED.notes, updated_at = NOW()
		RETURNING id, session_id, player_id, drill_id, evaluator_id, value, notes, created_at, updated_at
	`
	var score models.Score
	err := r.db.QueryRow(ctx, query,
		input.SessionID,
		input.PlayerID,
		input.DrillID,
		input.EvaluatorID,
		input.Value,
		input.Notes,
	).Scan(
		&score.ID,
		&score.SessionID,
		&score.PlayerID,
		&score.DrillID,
		&score.EvaluatorID,
		&score.Value,
		&score.Notes,
		&score.CreatedAt,
		&score.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *ScoreRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.Score, error) {
	query := `
		SELECT id, session_id, player_id, drill_id, evaluator_id, value, notes, created_at, updated_at
		FROM scores
		WHERE session_id = $1
		ORDER BY player_id ASC, drill_id ASC, evaluator_id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]models.Score, 0)
	for rows.Next() {
		var score models.Score
		if err := rows.Scan(
			&score.ID,
			&score.SessionID,
			&score.PlayerID,
			&score.DrillID,
			&score.EvaluatorID,
			&score.Value,
			&score.Notes,
			&score.CreatedAt,
			&score.UpdatedAt,
		); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *ScoreRepository) HasScores(ctx context.Context, sessionID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM scores WHERE session_id = $1)`, sessionID).Scan(&exists)
	return exists, err
}

// ScoredSessionIDs reports which of the given sessions already have scores.
func (r *ScoreRepository) ScoredSessionIDs(ctx context.Context, sessionIDs []int64) (map[int64]bool, error) {
	scored := make(map[int64]bool, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return scored, nil
	}

	rows, err := r.db.Query(ctx, `SELECT DISTINCT session_id FROM scores WHERE session_id = ANY($1)`, sessionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		scored[id] = true
	}
	return scored, rows.Err()
}
