package database

import (
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/schema"
)

// Rows is the part of a driver result set ScanColumns consumes. Each driver
// wraps its native rows so Scan and Err return classified errors.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// ScanColumns reads a column-metadata result set into schema rows.
//
// Every driver selects the same five columns in the same order:
// table name, column name, type token, nullable flag, default value.
// The nullable flag is scanned as a bool; drivers convert their catalog's
// representation ('YES'/'NO', notnull) inside the query.
//
// The returned slice is always non-nil (empty slice on zero rows).
// ScanColumns always closes the Rows; callers do not need to call Close().
func ScanColumns(rows Rows) ([]schema.Row, error) {
	defer rows.Close()

	result := make([]schema.Row, 0)

	for rows.Next() {
		var (
			r   schema.Row
			def *string
		)
		if err := rows.Scan(&r.TableName, &r.ColumnName, &r.SQLType, &r.IsNullable, &def); err != nil {
			return nil, asQueryError("failed to scan column row", err)
		}
		r.DefaultValue = def
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, asQueryError("error during row iteration", err)
	}

	return result, nil
}

// asQueryError keeps an already classified error and tags anything else as
// a query failure.
func asQueryError(msg string, err error) error {
	if errs.KindOf(err) != errs.ErrKindUnknown {
		return err
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
