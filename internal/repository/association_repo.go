package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const associationColumns = `id, name, abbreviation, sport, contact_email, status, created_at, updated_at`

var associationSortColumns = map[string]string{
	"name":         "name",
	"abbreviation": "abbreviation",
	"status":       "status",
	"created_at":   "created_at",
}

type AssociationInput struct {
	Name         string
	Abbreviation string
	Sport        string
	ContactEmail *string
}

type AssociationListFilter struct {
	ListOptions
	Status string
}

type AssociationRepository struct {
	db DBTX
}

func NewAssociationRepository(db DBTX) *AssociationRepository {
	return &AssociationRepository{db: db}
}

func scanAssociation(row pgx.Row) (*models.Association, error) {
	var association models.Association
	err := row.Scan(
		&association.ID,
		&association.Name,
		&association.Abbreviation,
		&association.Sport,
		&association.ContactEmail,
		&association.Status,
		&association.CreatedAt,
		&association.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &association, nil
}

func (r *AssociationRepository) Create(ctx context.Context, input AssociationInput) (*models.Association, error) {
	query := `
		INSERT INTO associations (name, abbreviation, sport, contact_email, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING ` + associationColumns
	return scanAssociation(r.db.QueryRow(ctx, query, input.Name, input.Abbreviation, input.Sport, input.ContactEmail))
}

func (r *AssociationRepository) GetByID(ctx context.Context, id int64) (*models.Association, error) {
	query := `SELECT ` + associationColumns + ` FROM associations WHERE id = $1`
	return scanAssociation(r.db.QueryRow(ctx, query, id))
}

func (r *AssociationRepository) List(ctx context.Context, filter AssociationListFilter) ([]models.Association, int, error) {
	var where whereBuilder
	if filter.Status != "" {
		where.add("status = $%d", filter.Status)
	}
	where.addSearch(filter.Search, "name", "abbreviation")

	var total int
	countQuery := `SELECT COUNT(*) FROM associations WHERE ` + where.sql()
	if err := r.db.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := limitOffset(where.args, filter.ListOptions)
	query := fmt.Sprintf(`
		SELECT %s
		FROM associations
		WHERE %s
		ORDER BY %s
		%s
	`, associationColumns, where.sql(), orderBy(filter.ListOptions, associationSortColumns, "name ASC, id ASC"), limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	associations := make([]models.Association, 0)
	for rows.Next() {
		association, err := scanAssociation(rows)
		if err != nil {
			return nil, 0, err
		}
		associations = append(associations, *association)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return associations, total, nil
}

func (r *AssociationRepository) Update(ctx context.Context, id int64, input AssociationInput) (*models.Association, error) {
	query := `
		UPDATE associations
		SET name = $2, abbreviation = $3, sport = $4, contact_email = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + associationColumns
	return scanAssociation(r.db.QueryRow(ctx, query, id, input.Name, input.Abbreviation, input.Sport, input.ContactEmail))
}

func (r *AssociationRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.Association, error) {
	query := `
		UPDATE associations
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + associationColumns
	return scanAssociation(r.db.QueryRow(ctx, query, id, status))
}
