package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/koustreak/modelgen/internal/errs"
)

// PostgreSQL SQLSTATE codes relevant to introspection
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnection          = "08"
	pgClassInvalidAuth         = "28"
	pgErrInvalidCatalogName    = "3D000"
	pgErrInsufficientPrivilege = "42501"
)

// mapError converts a pgx error into an *errs.Error
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	// Context cancellation / deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// No rows
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	// Postgres server-side error (SQLSTATE codes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(
			classifySQLState(pgErr.Code),
			fmt.Sprintf("%s: %s", msg, pgErr.Message),
			err,
		)
	}

	// Fallthrough: connection-level errors (TLS, network, auth)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifySQLState maps a SQLSTATE code to ErrKind.
func classifySQLState(code string) errs.ErrKind {
	switch {
	case strings.HasPrefix(code, pgClassConnection), strings.HasPrefix(code, pgClassInvalidAuth):
		return errs.ErrKindConnectionFailed
	case code == pgErrInvalidCatalogName:
		return errs.ErrKindConnectionFailed
	case code == pgErrInsufficientPrivilege:
		return errs.ErrKindPermissionDenied
	default:
		return errs.ErrKindQueryFailed
	}
}
