// Package render produces TypeScript model source from model classes.
//
// Both the class and its properties come from one embedded template
// executed over typed views, so rendering is pure: identical input and
// run context always yield identical bytes.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/koustreak/modelgen/internal/model"
	"github.com/koustreak/modelgen/internal/typemap"
)

// DefaultNamespace wraps generated classes when no namespace is configured.
const DefaultNamespace = "Modelgen.Models"

//go:embed class.ts.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "class.ts.tmpl"))

// Run is the context shared by every file of one generation run.
type Run struct {
	Namespace   string
	GeneratedAt time.Time
}

// TSType returns the TypeScript type declared for kind.
func TSType(kind typemap.Kind) string {
	switch kind {
	case typemap.Number:
		return "number"
	case typemap.String:
		return "string"
	case typemap.Boolean:
		return "boolean"
	case typemap.DateTime:
		return "Date"
	default:
		return "unknown"
	}
}

type propertyView struct {
	Class      string
	Name       string
	Type       string
	Nullable   bool
	HasDefault bool
	Default    string
	Unmapped   bool
	SQLType    string
}

type classView struct {
	Namespace   string
	GeneratedAt string
	Name        string
	Table       string
	Properties  []propertyView
}

func newPropertyView(className string, p model.Property) propertyView {
	v := propertyView{
		Class:    className,
		Name:     p.Name,
		Type:     TSType(p.Kind),
		Nullable: p.Nullable,
		Unmapped: p.Unmapped(),
		SQLType:  escapeDoc(p.SQLType),
	}
	if p.HasDefault() {
		v.HasDefault = true
		v.Default = escapeDoc(*p.Default)
	}
	return v
}

// Property renders the documentation block and field declaration for p.
// The text is the same block Class embeds for that property.
func Property(className string, p model.Property) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "property", newPropertyView(className, p)); err != nil {
		return "", fmt.Errorf("failed to execute property template: %w", err)
	}
	return strings.TrimPrefix(buf.String(), "\n"), nil
}

// Class renders the complete source file for class.
func Class(run Run, class model.Class) ([]byte, error) {
	namespace := run.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	view := classView{
		Namespace:   namespace,
		GeneratedAt: run.GeneratedAt.Format(time.RFC3339),
		Name:        class.Name,
		Table:       escapeDoc(class.Table),
		Properties:  make([]propertyView, 0, len(class.Properties)),
	}
	for _, p := range class.Properties {
		view.Properties = append(view.Properties, newPropertyView(class.Name, p))
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "class", view); err != nil {
		return nil, fmt.Errorf("failed to execute class template: %w", err)
	}
	return buf.Bytes(), nil
}

// escapeDoc keeps a value from closing the surrounding doc comment and from
// spilling onto a new line.
func escapeDoc(s string) string {
	s = strings.ReplaceAll(s, "*/", `*\/`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
