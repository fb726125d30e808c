package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomssql "github.com/microsoft/go-mssqldb"

	"github.com/koustreak/modelgen/internal/errs"
)

// SQL Server error numbers
// Full list: https://learn.microsoft.com/sql/relational-databases/errors-events/database-engine-events-and-errors
const (
	errLoginFailed        = 18456
	errCannotOpenDatabase = 4060
	errPermissionDenied   = 229
	errSchemaDenied       = 230
	errInvalidObject      = 208
	errSyntax             = 102
)

// mapError converts a go-mssqldb error into an *errs.Error
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var msErr gomssql.Error
	if errors.As(err, &msErr) {
		return errs.Wrap(
			classifyNumber(msErr.Number),
			fmt.Sprintf("%s: %s", msg, msErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifyNumber maps SQL Server error numbers to ErrKind.
func classifyNumber(n int32) errs.ErrKind {
	switch n {
	case errLoginFailed, errCannotOpenDatabase:
		return errs.ErrKindConnectionFailed
	case errPermissionDenied, errSchemaDenied:
		return errs.ErrKindPermissionDenied
	case errInvalidObject, errSyntax:
		return errs.ErrKindQueryFailed
	default:
		return errs.ErrKindQueryFailed
	}
}
