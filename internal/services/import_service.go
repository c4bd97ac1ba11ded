package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/EvalAdminBack/internal/csvimport"
	"github.com/saeid-a/EvalAdminBack/internal/metrics"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"go.uber.org/zap"
)

type ImportService struct {
	db             txBeginner
	cohortRepo     *repository.CohortRepository
	playerRepo     *repository.PlayerRepository
	sessionRepo    *repository.SessionRepository
	importRepo     *repository.ImportRepository
	storageService StorageService
	logger         *zap.Logger
	maxRows        int
	location       *time.Location
}

type ImportOptions struct {
	MaxRows  int
	Location *time.Location
}

func NewImportService(
	db txBeginner,
	cohortRepo *repository.CohortRepository,
	playerRepo *repository.PlayerRepository,
	sessionRepo *repository.SessionRepository,
	importRepo *repository.ImportRepository,
	storageService StorageService,
	logger *zap.Logger,
	opts ImportOptions,
) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &ImportService{
		db:             db,
		cohortRepo:     cohortRepo,
		playerRepo:     playerRepo,
		sessionRepo:    sessionRepo,
		importRepo:     importRepo,
		storageService: storageService,
		logger:         logger,
		maxRows:        opts.MaxRows,
		location:       opts.Location,
	}
}

type ImportRequest struct {
	Kind     string
	Filename string
	Content  []byte
	Commit   bool
}

type ImportResult struct {
	Kind      string            `json:"kind"`
	Committed bool              `json:"committed"`
	Report    any               `json:"report"`
	Import    *models.CSVImport `json:"import,omitempty"`
}

// ImportRowsError carries the preview report of a commit that was refused
// because at least one row failed validation.
type ImportRowsError struct {
	Result *ImportResult
}

func (e *ImportRowsError) Error() string {
	return ErrImportHasErrors.Error()
}

func (e *ImportRowsError) Unwrap() error {
	return ErrImportHasErrors
}

// parsedImport is a validated file ready to be written.
type parsedImport struct {
	totalRows  int
	validRows  int
	issues     int
	duplicates int
	report     any
	insert     func(ctx context.Context, tx pgx.Tx) error
}

func (s *ImportService) Import(ctx context.Context, actor Actor, associationID int64, req ImportRequest) (*ImportResult, error) {
	if !actor.IsAdmin() || !actor.CanAccessAssociation(associationID) {
		return nil, ErrForbidden
	}

	parsed, err := s.parse(ctx, associationID, req.Kind, req.Content)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Kind: req.Kind, Report: parsed.report}
	if !req.Commit {
		return result, nil
	}
	if parsed.issues > 0 {
		return nil, &ImportRowsError{Result: result}
	}

	record, err := s.commit(ctx, actor, associationID, req, parsed)
	if err != nil {
		return nil, err
	}
	result.Committed = true
	result.Import = record
	return result, nil
}

func (s *ImportService) parse(ctx context.Context, associationID int64, kind string, content []byte) (*parsedImport, error) {
	cohorts, err := s.cohortRepo.ListAll(ctx, associationID)
	if err != nil {
		return nil, err
	}
	opts := csvimport.Options{MaxRows: s.maxRows, Location: s.location}

	switch kind {
	case models.ImportKindPlayers:
		existing, err := s.playerRepo.ListAll(ctx, associationID)
		if err != nil {
			return nil, err
		}
		report, err := csvimport.ParsePlayers(bytes.NewReader(content), cohorts, existing, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return &parsedImport{
			totalRows:  report.TotalRows,
			validRows:  len(report.Rows),
			issues:     len(report.Issues),
			duplicates: len(report.Duplicates),
			report:     report,
			insert: func(ctx context.Context, tx pgx.Tx) error {
				playerRepo := repository.NewPlayerRepository(tx)
				for _, row := range report.Rows {
					if _, err := playerRepo.Create(ctx, associationID, repository.PlayerInput{
						CohortID:     row.CohortID,
						FirstName:    row.FirstName,
						LastName:     row.LastName,
						BirthDate:    row.BirthDate,
						Position:     row.Position,
						JerseyNumber: row.JerseyNumber,
					}); err != nil {
						return fmt.Errorf("line %d: %w", row.Line, err)
					}
				}
				return nil
			},
		}, nil

	case models.ImportKindSessions:
		existing, err := s.sessionRepo.ListAll(ctx, associationID)
		if err != nil {
			return nil, err
		}
		report, err := csvimport.ParseSessions(bytes.NewReader(content), cohorts, existing, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return &parsedImport{
			totalRows:  report.TotalRows,
			validRows:  len(report.Rows),
			issues:     len(report.Issues),
			duplicates: len(report.Duplicates),
			report:     report,
			insert: func(ctx context.Context, tx pgx.Tx) error {
				sessionRepo := repository.NewSessionRepository(tx)
				for _, row := range report.Rows {
					if _, err := sessionRepo.Create(ctx, associationID, repository.SessionInput{
						CohortID:        row.CohortID,
						Name:            row.Name,
						WaveNumber:      row.WaveNumber,
						ScheduledAt:     row.ScheduledAt.UTC(),
						DurationMinutes: row.DurationMinutes,
						Location:        row.Location,
					}); err != nil {
						return fmt.Errorf("line %d: %w", row.Line, err)
					}
				}
				return nil
			},
		}, nil

	default:
		return nil, ErrInvalidInput
	}
}

func (s *ImportService) commit(
	ctx context.Context,
	actor Actor,
	associationID int64,
	req ImportRequest,
	parsed *parsedImport,
) (*models.CSVImport, error) {
	var fileURL *string
	if s.storageService != nil {
		url, err := s.storageService.UploadFile(ctx, req.Content, "text/csv", buildImportObjectPath(associationID, req.Kind))
		if err != nil {
			return nil, err
		}
		fileURL = &url
	}

	record, err := s.writeImport(ctx, actor, associationID, req, parsed, fileURL)
	if err != nil {
		if fileURL != nil {
			if cleanupErr := s.storageService.DeleteFile(ctx, *fileURL); cleanupErr != nil {
				return nil, errors.Join(err, fmt.Errorf("cleanup failed: %w", cleanupErr))
			}
		}
		return nil, err
	}

	metrics.RecordImport(req.Kind, record.ImportedRows, record.SkippedRows)
	s.logger.Info("csv import committed",
		zap.Int64("import_id", record.ID),
		zap.Int64("association_id", associationID),
		zap.String("kind", req.Kind),
		zap.Int("total_rows", record.TotalRows),
		zap.Int("imported_rows", record.ImportedRows),
		zap.Int("skipped_rows", record.SkippedRows),
		zap.Bool("archived", fileURL != nil),
	)
	return record, nil
}

func (s *ImportService) writeImport(
	ctx context.Context,
	actor Actor,
	associationID int64,
	req ImportRequest,
	parsed *parsedImport,
	fileURL *string,
) (*models.CSVImport, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := parsed.insert(ctx, tx); err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}

	record, err := repository.NewImportRepository(tx).Create(ctx, models.CSVImport{
		AssociationID: associationID,
		Kind:          req.Kind,
		Filename:      cleanFilename(req.Filename),
		FileURL:       fileURL,
		TotalRows:     parsed.totalRows,
		ImportedRows:  parsed.validRows,
		SkippedRows:   parsed.duplicates,
		CreatedBy:     actor.UserID,
	})
	if err != nil {
		return nil, translateError(err, ErrInvalidInput)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ImportService) List(ctx context.Context, associationID int64, limit, offset int) ([]models.CSVImport, int, error) {
	return s.importRepo.List(ctx, associationID, limit, offset)
}

func (s *ImportService) DownloadURL(ctx context.Context, associationID, importID int64) (string, error) {
	if s.storageService == nil {
		return "", ErrStorageUnavailable
	}
	record, err := s.importRepo.GetByID(ctx, associationID, importID)
	if err != nil {
		return "", translateError(err, err)
	}
	if record.FileURL == nil {
		return "", ErrNotFound
	}
	return s.storageService.GetSignedURL(ctx, *record.FileURL)
}

func (s *ImportService) ExportPlayers(ctx context.Context, associationID, cohortID int64, w io.Writer) error {
	cohortNames, err := s.cohortNames(ctx, associationID)
	if err != nil {
		return err
	}
	players, _, err := s.playerRepo.List(ctx, repository.PlayerListFilter{
		AssociationID: associationID,
		CohortID:      cohortID,
	})
	if err != nil {
		return err
	}
	return csvimport.WritePlayers(w, players, cohortNames)
}

func (s *ImportService) ExportSessions(ctx context.Context, associationID, cohortID int64, w io.Writer) error {
	cohortNames, err := s.cohortNames(ctx, associationID)
	if err != nil {
		return err
	}
	sessions, _, err := s.sessionRepo.List(ctx, repository.SessionListFilter{
		AssociationID: associationID,
		CohortID:      cohortID,
	})
	if err != nil {
		return err
	}
	return csvimport.WriteSessions(w, sessions, cohortNames, s.location)
}

func (s *ImportService) cohortNames(ctx context.Context, associationID int64) (map[int64]string, error) {
	cohorts, err := s.cohortRepo.ListAll(ctx, associationID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cohorts))
	for _, cohort := range cohorts {
		names[cohort.ID] = cohort.Name
	}
	return names, nil
}

func buildImportObjectPath(associationID int64, kind string) string {
	return fmt.Sprintf("imports/%d/%s-%d.csv", associationID, kind, time.Now().UnixNano())
}

func cleanFilename(original string) string {
	name := filepath.Base(strings.TrimSpace(original))
	if name == "." || name == "/" || name == "" {
		return "upload.csv"
	}
	return name
}
