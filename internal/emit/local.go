package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/koustreak/modelgen/internal/errs"
)

// Local writes files under a directory on disk.
type Local struct {
	dir string
	log func(string)
}

// NewLocal returns an emitter rooted at dir. The directory is created on
// the first write. log may be nil.
func NewLocal(dir string, log func(string)) *Local {
	if log == nil {
		log = func(string) {}
	}
	return &Local{dir: dir, log: log}
}

// Dir returns the output directory.
func (l *Local) Dir() string {
	return l.dir
}

// Emit writes file.Content to {dir}/{file.Path}, replacing any existing file.
func (l *Local) Emit(_ context.Context, file File) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrKindWriteFailed, fmt.Sprintf("create %s", l.dir), err)
	}

	target := filepath.Join(l.dir, file.Path)
	if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
		l.log(fmt.Sprintf("\tReplacing existing file '%s'", target))
	}

	if err := os.WriteFile(target, file.Content, 0o644); err != nil {
		return errs.Wrap(errs.ErrKindWriteFailed, fmt.Sprintf("write %s", target), err)
	}
	return nil
}
