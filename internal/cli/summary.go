package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/koustreak/modelgen/internal/config"
	"github.com/koustreak/modelgen/internal/generator"
)

var (
	okLabel      = color.New(color.FgGreen).Sprint("WROTE    ")
	dryLabel     = color.New(color.FgBlue).Sprint("RENDERED ")
	failLabel    = color.New(color.FgRed).Sprint("FAILED   ")
	unmapLabel   = color.New(color.FgYellow).Sprint("UNMAPPED ")
	collideLabel = color.New(color.FgYellow).Sprint("COLLISION")
	dupLabel     = color.New(color.FgYellow).Sprint("DUPLICATE")
)

func printSummary(w io.Writer, cfg *config.Config, res *generator.Result) {
	target := cfg.Output
	if cfg.Storage.Provider == config.ProviderMinIO {
		target = "minio://" + cfg.Storage.Bucket
		if cfg.Storage.Prefix != "" {
			target += "/" + strings.Trim(cfg.Storage.Prefix, "/")
		}
	}

	failed := make(map[string]error, len(res.Failed))
	for _, f := range res.Failed {
		failed[f.Path] = f.Err
	}

	fmt.Fprintln(w)
	for _, f := range res.Files {
		switch {
		case cfg.DryRun:
			fmt.Fprintf(w, "  %s %s <- %s\n", dryLabel, f.Path, f.Table)
		case failed[f.Path] != nil:
			fmt.Fprintf(w, "  %s %s: %v\n", failLabel, f.Path, failed[f.Path])
		default:
			fmt.Fprintf(w, "  %s %s <- %s\n", okLabel, f.Path, f.Table)
		}
	}
	for _, u := range res.Unmapped {
		fmt.Fprintf(w, "  %s %s.%s (%s)\n", unmapLabel, u.Table, u.Column, u.SQLType)
	}
	for _, c := range res.Collisions {
		fmt.Fprintf(w, "  %s %s <- %s\n", collideLabel, c.ClassName, strings.Join(c.Tables, ", "))
	}
	for _, d := range res.PropertyCollisions {
		fmt.Fprintf(w, "  %s %s.%s <- %s.%s\n", dupLabel, d.Class, d.Property, d.Table, strings.Join(d.Columns, ", "))
	}

	status := color.New(color.FgGreen, color.Bold).Sprint("OK")
	if len(res.Failed) > 0 {
		status = color.New(color.FgRed, color.Bold).Sprint("INCOMPLETE")
	}
	verb := "written to " + target
	if cfg.DryRun {
		verb = "rendered (dry run)"
	}
	fmt.Fprintf(w, "\n%s %d model(s) %s in %s [run %s]\n", status, len(res.Files)-len(res.Failed), verb, res.Duration().Round(time.Microsecond), shortID(res.RunID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
