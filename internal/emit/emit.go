// Package emit persists generated model files, either to a local directory
// or to an object store bucket. Every emitter overwrites existing files of
// the same name, and a failure is reported as errs.ErrKindWriteFailed so the
// generator can keep going with the remaining files.
package emit

// File is one generated source file.
type File struct {
	Path      string // relative path, ClassName plus extension
	ClassName string
	Table     string
	Content   []byte
}
