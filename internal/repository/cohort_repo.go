package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const cohortColumns = `
	c.id, c.association_id, c.name, c.description, c.season, c.status,
	(SELECT COUNT(*) FROM players p WHERE p.cohort_id = c.id) AS player_count,
	c.created_at, c.updated_at`

var cohortSortColumns = map[string]string{
	"name":         "c.name",
	"season":       "c.season",
	"status":       "c.status",
	"player_count": "player_count",
	"created_at":   "c.created_at",
}

type CohortInput struct {
	Name        string
	Description *string
	Season      *string
	Status      string
}

type CohortListFilter struct {
	ListOptions
	AssociationID int64
	Status        string
}

type CohortRepository struct {
	db DBTX
}

func NewCohortRepository(db DBTX) *CohortRepository {
	return &CohortRepository{db: db}
}

func scanCohort(row pgx.Row) (*models.Cohort, error) {
	var cohort models.Cohort
	err := row.Scan(
		&cohort.ID,
		&cohort.AssociationID,
		&cohort.Name,
		&cohort.Description,
		&cohort.Season,
		&cohort.Status,
		&cohort.PlayerCount,
		&cohort.CreatedAt,
		&cohort.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cohort, nil
}

func (r *CohortRepository) Create(ctx context.Context, associationID int64, input CohortInput) (*models.Cohort, error) {
	query := `
		WITH c AS (
			INSERT INTO cohorts (association_id, name, description, season, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + cohortColumns + ` FROM c`
	return scanCohort(r.db.QueryRow(ctx, query, associationID, input.Name, input.Description, input.Season, input.Status))
}

func (r *CohortRepository) GetByID(ctx context.Context, associationID, id int64) (*models.Cohort, error) {
	query := `SELECT ` + cohortColumns + ` FROM cohorts c WHERE c.association_id = $1 AND c.id = $2`
	return scanCohort(r.db.QueryRow(ctx, query, associationID, id))
}

func (r *CohortRepository) List(ctx context.Context, filter CohortListFilter) ([]models.Cohort, int, error) {
	var where whereBuilder
	where.add("c.association_id = $%d", filter.AssociationID)
	if filter.Status != "" {
		where.add("c.status = $%d", filter.Status)
	}
	where.addSearch(filter.Search, "c.name", "c.season")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cohorts c WHERE `+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := limitOffset(where.args, filter.ListOptions)
	query := fmt.Sprintf(`
		SELECT %s
		FROM cohorts c
		WHERE %s
		ORDER BY %s
		%s
	`, cohortColumns, where.sql(), orderBy(filter.ListOptions, cohortSortColumns, "c.name ASC, id ASC"), limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cohorts := make([]models.Cohort, 0)
	for rows.Next() {
		cohort, err := scanCohort(rows)
		if err != nil {
			return nil, 0, err
		}
		cohorts = append(cohorts, *cohort)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return cohorts, total, nil
}

// ListAll returns every cohort of the association; used for CSV lookups.
func (r *CohortRepository) ListAll(ctx context.Context, associationID int64) ([]models.Cohort, error) {
	cohorts, _, err := r.List(ctx, CohortListFilter{AssociationID: associationID})
	return cohorts, err
}

func (r *CohortRepository) Update(ctx context.Context, associationID, id int64, input CohortInput) (*models.Cohort, error) {
	query := `
		WITH c AS (
			UPDATE cohorts
			SET name = $3, description = $4, season = $5, status = $6, updated_at = NOW()
			WHERE association_id = $1 AND id = $2
			RETURNING *
		)
		SELECT ` + cohortColumns + ` FROM c`
	return scanCohort(r.db.QueryRow(ctx, query, associationID, id, input.Name, input.Description, input.Season, input.Status))
}

func (r *CohortRepository) Delete(ctx context.Context, associationID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cohorts WHERE association_id = $1 AND id = $2`, associationID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
