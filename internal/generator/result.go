package generator

import (
	"time"

	"github.com/koustreak/modelgen/internal/emit"
)

// Result describes one generation run.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	State      State

	// Files holds every rendered file in table first-appearance order,
	// including dry runs where nothing is written.
	Files []emit.File

	Written    []string // paths emitted successfully, in emit order
	Failed     []FileError
	Unmapped   []UnmappedColumn
	Collisions []Collision

	// PropertyCollisions lists columns that share a property name. The
	// rendered class declares that property more than once.
	PropertyCollisions []PropertyCollision
}

// FileError is a write failure isolated to one file.
type FileError struct {
	Path string
	Err  error
}

// UnmappedColumn is a column whose type token has no scalar mapping.
type UnmappedColumn struct {
	Table   string
	Column  string
	SQLType string
}

// Collision lists tables whose names normalize to the same class. The file
// of the last table overwrites the earlier ones.
type Collision struct {
	ClassName string
	Tables    []string
}

// PropertyCollision lists columns of one table whose names normalize to the
// same property.
type PropertyCollision struct {
	Class    string
	Table    string
	Property string
	Columns  []string
}

// OK reports whether the run completed with every file written.
func (r *Result) OK() bool {
	return r.State == StateCompleted && len(r.Failed) == 0
}

// Duration is the wall time between start and finish.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
