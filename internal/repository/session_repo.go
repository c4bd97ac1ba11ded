package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const sessionColumns = `id, association_id, cohort_id, name, wave_number, scheduled_at, duration_minutes, location, status, created_at, updated_at`

var sessionSortColumns = map[string]string{
	"name":         "name",
	"wave_number":  "wave_number",
	"scheduled_at": "scheduled_at",
	"status":       "status",
	"created_at":   "created_at",
}

type SessionInput struct {
	CohortID        int64
	Name            string
	WaveNumber      int
	ScheduledAt     time.Time
	DurationMinutes int
	Location        *string
}

type SessionListFilter struct {
	ListOptions
	AssociationID int64
	CohortID      int64
	WaveNumber    int
	Status        string
	From          *time.Time
	To            *time.Time
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.AssociationID,
		&session.CohortID,
		&session.Name,
		&session.WaveNumber,
		&session.ScheduledAt,
		&session.DurationMinutes,
		&session.Location,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func collectSessions(rows pgx.Rows) ([]models.Session, error) {
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) Create(ctx context.Context, associationID int64, input SessionInput) (*models.Session, error) {
	query := `
		INSERT INTO sessions (association_id, cohort_id, name, wave_number, scheduled_at, duration_minutes, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled')
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query,
		associationID,
		input.CohortID,
		input.Name,
		input.WaveNumber,
		input.ScheduledAt,
		input.DurationMinutes,
		input.Location,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, associationID, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE association_id = $1 AND id = $2`
	return scanSession(r.db.QueryRow(ctx, query, associationID, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, associationID, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE association_id = $1 AND id = $2 FOR UPDATE`
	return scanSession(r.db.QueryRow(ctx, query, associationID, sessionID))
}

// GetByIDForScoring locks the session against drill replaces and other score
// writers while still letting foreign key checks through.
func (r *SessionRepository) GetByIDForScoring(ctx context.Context, associationID, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE association_id = $1 AND id = $2 FOR NO KEY UPDATE`
	return scanSession(r.db.QueryRow(ctx, query, associationID, sessionID))
}

func (r *SessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.Session, int, error) {
	var where whereBuilder
	where.add("association_id = $%d", filter.AssociationID)
	if filter.CohortID > 0 {
		where.add("cohort_id = $%d", filter.CohortID)
	}
	if filter.WaveNumber > 0 {
		where.add("wave_number = $%d", filter.WaveNumber)
	}
	if filter.Status != "" {
		where.add("status = $%d", filter.Status)
	}
	if filter.From != nil {
		where.add("scheduled_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		where.add("scheduled_at < $%d", *filter.To)
	}
	where.addSearch(filter.Search, "name", "location")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE `+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := limitOffset(where.args, filter.ListOptions)
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE %s
		ORDER BY %s
		%s
	`, sessionColumns, where.sql(), orderBy(filter.ListOptions, sessionSortColumns, "scheduled_at ASC, id ASC"), limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *SessionRepository) ListAll(ctx context.Context, associationID int64) ([]models.Session, error) {
	sessions, _, err := r.List(ctx, SessionListFilter{AssociationID: associationID})
	return sessions, err
}

// ListWaveSiblingsForUpdate locks every other non-cancelled session of the
// same cohort and wave.
func (r *SessionRepository) ListWaveSiblingsForUpdate(ctx context.Context, source *models.Session) ([]models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE association_id = $1
		  AND cohort_id = $2
		  AND wave_number = $3
		  AND id <> $4
		  AND status <> 'cancelled'
		ORDER BY scheduled_at ASC, id ASC
		FOR UPDATE
	`
	rows, err := r.db.Query(ctx, query, source.AssociationID, source.CohortID, source.WaveNumber, source.ID)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *SessionRepository) Update(ctx context.Context, associationID, sessionID int64, input SessionInput) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET cohort_id = $3, name = $4, wave_number = $5, scheduled_at = $6,
			duration_minutes = $7, location = $8, updated_at = NOW()
		WHERE association_id = $1 AND id = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query,
		associationID,
		sessionID,
		input.CohortID,
		input.Name,
		input.WaveNumber,
		input.ScheduledAt,
		input.DurationMinutes,
		input.Location,
	))
}

func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	associationID int64,
	sessionID int64,
	currentStatus string,
	nextStatus string,
) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET status = $4, updated_at = NOW()
		WHERE association_id = $1 AND id = $2 AND status = $3
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, associationID, sessionID, currentStatus, nextStatus))
}

func (r *SessionRepository) Delete(ctx context.Context, associationID, sessionID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE association_id = $1 AND id = $2`, associationID, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
