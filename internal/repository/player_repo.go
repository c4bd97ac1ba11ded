package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const playerColumns = `id, association_id, cohort_id, first_name, last_name, birth_date, position, jersey_number, created_at, updated_at`

var playerSortColumns = map[string]string{
	"first_name":    "first_name",
	"last_name":     "last_name",
	"birth_date":    "birth_date",
	"position":      "position",
	"jersey_number": "jersey_number",
	"created_at":    "created_at",
}

type PlayerInput struct {
	CohortID     int64
	FirstName    string
	LastName     string
	BirthDate    time.Time
	Position     string
	JerseyNumber *int
}

type PlayerListFilter struct {
	ListOptions
	AssociationID int64
	CohortID      int64
	Position      string
}

type PlayerRepository struct {
	db DBTX
}

func NewPlayerRepository(db DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var player models.Player
	err := row.Scan(
		&player.ID,
		&player.AssociationID,
		&player.CohortID,
		&player.FirstName,
		&player.LastName,
		&player.BirthDate,
		&player.Position,
		&player.JerseyNumber,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *PlayerRepository) Create(ctx context.Context, associationID int64, input PlayerInput) (*models.Player, error) {
	query := `
		INSERT INTO players (association_id, cohort_id, first_name, last_name, birth_date, position, jersey_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + playerColumns
	return scanPlayer(r.db.QueryRow(ctx, query,
		associationID,
		input.CohortID,
		input.FirstName,
		input.LastName,
		input.BirthDate,
		input.Position,
		input.JerseyNumber,
	))
}

func (r *PlayerRepository) GetByID(ctx context.Context, associationID, id int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE association_id = $1 AND id = $2`
	return scanPlayer(r.db.QueryRow(ctx, query, associationID, id))
}

func (r *PlayerRepository) List(ctx context.Context, filter PlayerListFilter) ([]models.Player, int, error) {
	var where whereBuilder
	where.add("association_id = $%d", filter.AssociationID)
	if filter.CohortID > 0 {
		where.add("cohort_id = $%d", filter.CohortID)
	}
	if filter.Position != "" {
		where.add("position = $%d", filter.Position)
	}
	where.addSearch(filter.Search, "first_name", "last_name", "jersey_number::text")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE `+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := limitOffset(where.args, filter.ListOptions)
	query := fmt.Sprintf(`
		SELECT %s
		FROM players
		WHERE %s
		ORDER BY %s
		%s
	`, playerColumns, where.sql(), orderBy(filter.ListOptions, playerSortColumns, "last_name ASC, first_name ASC, id ASC"), limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, 0, err
		}
		players = append(players, *player)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return players, total, nil
}

func (r *PlayerRepository) ListAll(ctx context.Context, associationID int64) ([]models.Player, error) {
	players, _, err := r.List(ctx, PlayerListFilter{AssociationID: associationID})
	return players, err
}

func (r *PlayerRepository) Update(ctx context.Context, associationID, id int64, input PlayerInput) (*models.Player, error) {
	query := `
		UPDATE players
		SET cohort_id = $3, first_name = $4, last_name = $5, birth_date = $6,
			position = $7, jersey_number = $8, updated_at = NOW()
		WHERE association_id = $1 AND id = $2
		RETURNING ` + playerColumns
	return scanPlayer(r.db.QueryRow(ctx, query,
		associationID,
		id,
		input.CohortID,
		input.FirstName,
		input.LastName,
		input.BirthDate,
		input.Position,
		input.JerseyNumber,
	))
}

func (r *PlayerRepository) Delete(ctx context.Context, associationID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM players WHERE association_id = $1 AND id = $2`, associationID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
