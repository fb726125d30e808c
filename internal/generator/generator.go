// Package generator runs one schema-to-model generation: connect, query the
// catalog once, render a class per table, emit the files, close.
//
// Usage:
//
//	gen, err := generator.New(cfg, src, emit.NewLocal("./models", log.Sink()),
//	    generator.WithLog(log.Sink()),
//	    generator.WithCompletion(func() { fmt.Println("done") }),
//	)
//	res, err := gen.Generate(ctx)
//
// A connection or query failure aborts the run before anything is written.
// A failed write only affects its own file; the run carries on and the
// failure is reported in Result.Failed.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/emit"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/model"
	"github.com/koustreak/modelgen/internal/render"
	"github.com/koustreak/modelgen/internal/schema"
	"github.com/koustreak/modelgen/internal/typemap"
)

// DefaultExtension is appended to class names to form file paths.
const DefaultExtension = ".ts"

// Config selects the engine vocabulary and the output shape of a run.
type Config struct {
	Driver    database.Driver
	Namespace string // render.DefaultNamespace when empty
	Extension string // DefaultExtension when empty
	DryRun    bool   // render everything, write nothing
	Strict    bool   // abort on unmapped column types or duplicate properties
}

// Emitter persists one generated file.
type Emitter interface {
	Emit(ctx context.Context, file emit.File) error
}

// Option configures a Generator.
type Option func(*Generator)

// WithLog sets the progress sink. Messages are indented with tabs to show
// nesting (file, class, properties).
func WithLog(log func(string)) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithCompletion sets a hook fired exactly once when a run completes.
// It is not fired for aborted runs.
func WithCompletion(done func()) Option {
	return func(g *Generator) {
		g.onComplete = done
	}
}

// WithClock replaces time.Now. The run timestamp is read once at start.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator turns a schema source into model files.
type Generator struct {
	cfg        Config
	src        schema.Source
	emitter    Emitter
	mapper     *typemap.Mapper
	log        func(string)
	onComplete func()
	now        func() time.Time
}

// New validates cfg and wires the collaborators. An unsupported driver is
// rejected here, before any I/O. emitter may be nil for dry runs.
func New(cfg Config, src schema.Source, emitter Emitter, opts ...Option) (*Generator, error) {
	mapper, err := typemap.For(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errs.New(errs.ErrKindInvalidConfig, "a schema source is required")
	}
	if emitter == nil && !cfg.DryRun {
		return nil, errs.New(errs.ErrKindInvalidConfig, "an emitter is required unless dry_run is set")
	}

	if cfg.Namespace == "" {
		cfg.Namespace = render.DefaultNamespace
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}

	g := &Generator{
		cfg:     cfg,
		src:     src,
		emitter: emitter,
		mapper:  mapper,
		log:     func(string) {},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate executes one run. On abort the partial Result is returned along
// with the error; its State is StateAborted and no file has been written.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	started := g.now()
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: started,
		State:     StateIdle,
	}
	run := render.Run{Namespace: g.cfg.Namespace, GeneratedAt: started}

	res.State = StateConnecting
	if err := g.src.Connect(ctx); err != nil {
		return g.abort(ctx, res, classify(err, errs.ErrKindConnectionFailed, "connect failed"))
	}

	res.State = StateQuerying
	rows, err := g.src.Columns(ctx)
	if err != nil {
		return g.abort(ctx, res, classify(err, errs.ErrKindQueryFailed, "metadata query failed"))
	}

	tables := schema.Group(rows)
	res.State = StateGrouped

	res.State = StateRendering
	files := make([]emit.File, 0, len(tables))
	owners := make(map[string][]string, len(tables))
	var order []string
	for _, table := range tables {
		file, class, err := g.renderTable(run, table)
		if err != nil {
			return g.abort(ctx, res, err)
		}
		for _, p := range class.Unmapped() {
			res.Unmapped = append(res.Unmapped, UnmappedColumn{Table: table.Name, Column: p.Column, SQLType: p.SQLType})
			g.log(fmt.Sprintf("\t\tColumn '%s.%s' has unmapped type '%s'", table.Name, p.Column, p.SQLType))
		}
		for _, d := range class.Duplicates() {
			res.PropertyCollisions = append(res.PropertyCollisions, PropertyCollision{
				Class:    class.Name,
				Table:    table.Name,
				Property: d.Property,
				Columns:  d.Columns,
			})
			g.log(fmt.Sprintf("\t\tProperty '%s' of class '%s' is generated by columns '%s'", d.Property, class.Name, strings.Join(d.Columns, "', '")))
		}
		if _, ok := owners[class.Name]; !ok {
			order = append(order, class.Name)
		}
		owners[class.Name] = append(owners[class.Name], table.Name)
		files = append(files, file)
	}
	res.Files = files

	for _, name := range order {
		if owned := owners[name]; len(owned) > 1 {
			res.Collisions = append(res.Collisions, Collision{ClassName: name, Tables: owned})
			g.log(fmt.Sprintf("Class '%s' is generated by tables '%s'; the last one wins", name, strings.Join(owned, "', '")))
		}
	}

	if g.cfg.Strict && len(res.Unmapped) > 0 {
		return g.abort(ctx, res, unmappedError(res.Unmapped))
	}
	if g.cfg.Strict && len(res.PropertyCollisions) > 0 {
		return g.abort(ctx, res, duplicateError(res.PropertyCollisions))
	}

	if !g.cfg.DryRun {
		res.State = StateEmitting
		for _, file := range files {
			if err := g.emitter.Emit(ctx, file); err != nil {
				err = classify(err, errs.ErrKindWriteFailed, "write failed")
				res.Failed = append(res.Failed, FileError{Path: file.Path, Err: err})
				g.log(fmt.Sprintf("Failed to write '%s': %v", file.Path, err))
				continue
			}
			res.Written = append(res.Written, file.Path)
		}
	}

	if err := g.src.Close(ctx); err != nil {
		g.log(fmt.Sprintf("Closing the connection failed: %v", err))
	}
	res.State = StateClosed

	g.log("Finished")
	res.State = StateCompleted
	res.FinishedAt = g.now()
	if g.onComplete != nil {
		g.onComplete()
	}
	return res, nil
}

func (g *Generator) renderTable(run render.Run, table schema.Table) (emit.File, model.Class, error) {
	class := model.Build(table, g.mapper)
	path := class.Name + g.cfg.Extension

	g.log(fmt.Sprintf("Creating file '%s'", path))
	g.log(fmt.Sprintf("\tCreating class '%s'", class.Name))
	g.log(fmt.Sprintf("\t\tCreating properties for class '%s'", class.Name))
	for _, p := range class.Properties {
		nullable := "is not"
		if p.Nullable {
			nullable = "IS"
		}
		g.log(fmt.Sprintf("\t\tCreating property '%s' of type '%s' that %s nullable.", p.Name, render.TSType(p.Kind), nullable))
	}

	content, err := render.Class(run, class)
	if err != nil {
		return emit.File{}, class, fmt.Errorf("render %s: %w", table.Name, err)
	}
	return emit.File{Path: path, ClassName: class.Name, Table: table.Name, Content: content}, class, nil
}

func (g *Generator) abort(ctx context.Context, res *Result, cause error) (*Result, error) {
	res.State = StateAborted
	if err := g.src.Close(ctx); err != nil {
		g.log(fmt.Sprintf("Closing the connection failed: %v", err))
	}
	g.log(fmt.Sprintf("Aborted: %v", cause))
	res.FinishedAt = g.now()
	return res, cause
}

// classify tags an unclassified error with kind and leaves classified
// errors untouched.
func classify(err error, kind errs.ErrKind, msg string) error {
	if errs.KindOf(err) != errs.ErrKindUnknown {
		return err
	}
	return errs.Wrap(kind, msg, err)
}

func unmappedError(cols []UnmappedColumn) error {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, fmt.Sprintf("%s.%s (%s)", c.Table, c.Column, c.SQLType))
	}
	return errs.Newf(errs.ErrKindUnmappedType, "%d column(s) have unmapped types: %s", len(cols), strings.Join(names, ", "))
}

func duplicateError(dups []PropertyCollision) error {
	names := make([]string, 0, len(dups))
	for _, d := range dups {
		names = append(names, fmt.Sprintf("%s.%s (%s)", d.Table, d.Property, strings.Join(d.Columns, ", ")))
	}
	return errs.Newf(errs.ErrKindInvalidInput, "%d property name(s) are generated by more than one column: %s", len(dups), strings.Join(names, "; "))
}
