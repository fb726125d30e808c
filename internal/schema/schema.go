package schema

import "context"

// Source is the capability every schema backend exposes to the generator.
// One run calls Connect once, Columns once and Close once.
type Source interface {
	// Connect opens the single connection used by the run.
	Connect(ctx context.Context) error

	// Columns runs one metadata query covering every table of interest
	// and returns its rows. Rows of a table are contiguous and in ordinal
	// order for all bundled drivers, but callers only rely on the order in
	// which table names first appear.
	Columns(ctx context.Context) ([]Row, error)

	// Close releases the connection.
	Close(ctx context.Context) error
}
