// Package model turns grouped schema rows into class declarations ready to
// be rendered.
package model

import (
	"github.com/koustreak/modelgen/internal/naming"
	"github.com/koustreak/modelgen/internal/schema"
	"github.com/koustreak/modelgen/internal/typemap"
)

// Property is one field of a generated class.
type Property struct {
	Name     string // lower-camel name derived from Column
	Column   string
	SQLType  string
	Kind     typemap.Kind
	Nullable bool
	Default  *string // nil when the column declares no default
}

// Unmapped reports whether the column type fell outside the vocabulary.
func (p Property) Unmapped() bool {
	return p.Kind == typemap.Unknown
}

// HasDefault reports whether the column declares a default, including an
// empty-string default.
func (p Property) HasDefault() bool {
	return p.Default != nil
}

// Class is the declaration generated for one table.
type Class struct {
	Name       string
	Table      string
	Properties []Property
}

// Build derives the class for table. Properties keep the table's column order.
func Build(table schema.Table, mapper *typemap.Mapper) Class {
	class := Class{
		Name:       naming.Class(table.Name),
		Table:      table.Name,
		Properties: make([]Property, 0, len(table.Columns)),
	}
	for _, col := range table.Columns {
		class.Properties = append(class.Properties, Property{
			Name:     naming.Property(col.ColumnName),
			Column:   col.ColumnName,
			SQLType:  col.SQLType,
			Kind:     mapper.Lookup(col.SQLType),
			Nullable: col.IsNullable,
			Default:  col.DefaultValue,
		})
	}
	return class
}

// Unmapped returns the properties whose type could not be mapped.
func (c Class) Unmapped() []Property {
	var out []Property
	for _, p := range c.Properties {
		if p.Unmapped() {
			out = append(out, p)
		}
	}
	return out
}

// Duplicate is a property name produced by more than one column.
type Duplicate struct {
	Property string
	Columns  []string
}

// Duplicates returns property names shared by several columns, in the order
// the name first appears. Columns keep their table order.
func (c Class) Duplicates() []Duplicate {
	columns := make(map[string][]string, len(c.Properties))
	var order []string
	for _, p := range c.Properties {
		if _, ok := columns[p.Name]; !ok {
			order = append(order, p.Name)
		}
		columns[p.Name] = append(columns[p.Name], p.Column)
	}

	var out []Duplicate
	for _, name := range order {
		if len(columns[name]) > 1 {
			out = append(out, Duplicate{Property: name, Columns: columns[name]})
		}
	}
	return out
}
