package repository

import (
	"context"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const importColumns = `id, association_id, kind, filename, file_url, total_rows, imported_rows, skipped_rows, created_by, created_at`

type ImportRepository struct {
	db DBTX
}

func NewImportRepository(db DBTX) *ImportRepository {
	return &ImportRepository{db: db}
}

func scanImport(scan func(dest ...any) error) (*models.CSVImport, error) {
	var record models.CSVImport
	err := scan(
		&record.ID,
		&record.AssociationID,
		&record.Kind,
		&record.Filename,
		&record.FileURL,
		&record.TotalRows,
		&record.ImportedRows,
		&record.SkippedRows,
		&record.CreatedBy,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ImportRepository) Create(ctx context.Context, record models.CSVImport) (*models.CSVImport, error) {
	query := `
		INSERT INTO csv_imports (association_id, kind, filename, file_url, total_rows, imported_rows, skipped_rows, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + importColumns
	row := r.db.QueryRow(ctx, query,
		record.AssociationID,
		record.Kind,
		record.Filename,
		record.FileURL,
		record.TotalRows,
		record.ImportedRows,
		record.SkippedRows,
		record.CreatedBy,
	)
	return scanImport(row.Scan)
}

func (r *ImportRepository) GetByID(ctx context.Context, associationID, id int64) (*models.CSVImport, error) {
	query := `SELECT ` + importColumns + ` FROM csv_imports WHERE association_id = $1 AND id = $2`
	return scanImport(r.db.QueryRow(ctx, query, associationID, id).Scan)
}

func (r *ImportRepository) List(ctx context.Context, associationID int64, limit, offset int) ([]models.CSVImport, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM csv_imports WHERE association_id = $1`, associationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + importColumns + `
		FROM csv_imports
		WHERE association_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, associationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]models.CSVImport, 0)
	for rows.Next() {
		record, err := scanImport(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
