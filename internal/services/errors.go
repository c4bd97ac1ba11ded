package services

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrConflict               = errors.New("conflict")
	ErrInUse                  = errors.New("record is still referenced")
	ErrSessionLocked          = errors.New("session_locked")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrImportHasErrors        = errors.New("import has row errors")
	ErrStorageUnavailable     = errors.New("storage service is not configured")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgRaiseException      = "P0001"
)

// translateError maps repository errors onto service sentinels. onForeignKey
// picks the sentinel for 23503 since its meaning depends on the statement:
// a DELETE hitting it means the row is in use, an INSERT means a bad reference.
func translateError(err error, onForeignKey error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return onForeignKey
		case pgRaiseException:
			if pgErr.Message == "session_locked" {
				return ErrSessionLocked
			}
		}
	}
	return err
}
