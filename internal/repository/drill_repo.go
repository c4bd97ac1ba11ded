package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const drillColumns = `id, association_id, name, description, category, instructions, is_active, created_at, updated_at`

var drillSortColumns = map[string]string{
	"name":       "name",
	"category":   "category",
	"is_active":  "is_active",
	"created_at": "created_at",
}

type DrillInput struct {
	Name         string
	Description  *string
	Category     *string
	Instructions *string
	IsActive     bool
}

type DrillListFilter struct {
	ListOptions
	AssociationID int64
	Category      string
	ActiveOnly    bool
}

type DrillRepository struct {
	db DBTX
}

func NewDrillRepository(db DBTX) *DrillRepository {
	return &DrillRepository{db: db}
}

func scanDrill(row pgx.Row) (*models.Drill, error) {
	var drill models.Drill
	err := row.Scan(
		&drill.ID,
		&drill.AssociationID,
		&drill.Name,
		&drill.Description,
		&drill.Category,
		&drill.Instructions,
		&drill.IsActive,
		&drill.CreatedAt,
		&drill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &drill, nil
}

func (r *DrillRepository) Create(ctx context.Context, associationID int64, input DrillInput) (*models.Drill, error) {
	query := `
		INSERT INTO drills (association_id, name, description, category, instructions, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + drillColumns
	return scanDrill(r.db.QueryRow(ctx, query,
		associationID,
		input.Name,
		input.Description,
		input.Category,
		input.Instructions,
		input.IsActive,
	))
}

func (r *DrillRepository) GetByID(ctx context.Context, associationID, id int64) (*models.Drill, error) {
	query := `SELECT ` + drillColumns + ` FROM drills WHERE association_id = $1 AND id = $2`
	return scanDrill(r.db.QueryRow(ctx, query, associationID, id))
}

func (r *DrillRepository) GetByIDs(ctx context.Context, associationID int64, ids []int64) (map[int64]models.Drill, error) {
	result := make(map[int64]models.Drill, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + drillColumns + ` FROM drills WHERE association_id = $1 AND id = ANY($2)`
	rows, err := r.db.Query(ctx, query, associationID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		drill, err := scanDrill(rows)
		if err != nil {
			return nil, err
		}
		result[drill.ID] = *drill
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DrillRepository) List(ctx context.Context, filter DrillListFilter) ([]models.Drill, int, error) {
	var where whereBuilder
	where.add("association_id = $%d", filter.AssociationID)
	if filter.Category != "" {
		where.add("category = $%d", filter.Category)
	}
	if filter.ActiveOnly {
		where.parts = append(where.parts, "is_active")
	}
	where.addSearch(filter.Search, "name", "category", "description")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM drills WHERE `+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := limitOffset(where.args, filter.ListOptions)
	query := fmt.Sprintf(`
		SELECT %s
		FROM drills
		WHERE %s
		ORDER BY %s
		%s
	`, drillColumns, where.sql(), orderBy(filter.ListOptions, drillSortColumns, "name ASC, id ASC"), limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	drills := make([]models.Drill, 0)
	for rows.Next() {
		drill, err := scanDrill(rows)
		if err != nil {
			return nil, 0, err
		}
		drills = append(drills, *drill)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return drills, total, nil
}

func (r *DrillRepository) Update(ctx context.Context, associationID, id int64, input DrillInput) (*models.Drill, error) {
	query := `
		UPDATE drills
		SET name = $3, description = $4, category = $5, instructions = $6, is_active = $7, updated_at = NOW()
		WHERE association_id = $1 AND id = $2
		RETURNING ` + drillColumns
	return scanDrill(r.db.QueryRow(ctx, query,
		associationID,
		id,
		input.Name,
		input.Description,
		input.Category,
		input.Instructions,
		input.IsActive,
	))
}

func (r *DrillRepository) Delete(ctx context.Context, associationID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drills WHERE association_id = $1 AND id = $2`, associationID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
