// Package typemap translates vendor column type tokens into the small set of
// scalar kinds a generated model can declare.
//
// Every engine shares a base vocabulary (the integer, decimal, date and
// character families common to MySQL and SQL Server) and adds its own
// spellings on top: udt_name tokens for PostgreSQL, datetime2 and
// uniqueidentifier for SQL Server, type-affinity names for SQLite.
// Lookup is total: a token outside the vocabulary yields Unknown.
package typemap

import (
	"sort"
	"strings"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
)

// Kind is a mapped scalar type.
type Kind int

const (
	Unknown Kind = iota
	Number
	String
	Boolean
	DateTime
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case DateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// base is shared by every engine.
var base = map[string]Kind{
	"int":       Number,
	"tinyint":   Number,
	"smallint":  Number,
	"mediumint": Number,
	"bigint":    Number,
	"float":     Number,
	"double":    Number,
	"decimal":   Number,

	"date":      DateTime,
	"datetime":  DateTime,
	"timestamp": DateTime,
	"time":      DateTime,
	"year":      DateTime,

	"char":       String,
	"varchar":    String,
	"nvarchar":   String,
	"text":       String,
	"tinytext":   String,
	"mediumtext": String,
	"longtext":   String,

	"bit": Boolean,
}

// extras holds the per-engine additions.
var extras = map[database.Driver]map[string]Kind{
	database.DriverMySQL: {
		"integer":   Number,
		"numeric":   Number,
		"real":      Number,
		"bool":      Boolean,
		"boolean":   Boolean,
		"enum":      String,
		"set":       String,
		"json":      String,
		"binary":    String,
		"varbinary": String,
	},
	database.DriverMSSQL: {
		"numeric":          Number,
		"real":             Number,
		"money":            Number,
		"smallmoney":       Number,
		"datetime2":        DateTime,
		"smalldatetime":    DateTime,
		"datetimeoffset":   DateTime,
		"nchar":            String,
		"ntext":            String,
		"uniqueidentifier": String,
		"xml":              String,
	},
	database.DriverPostgres: {
		"int2":        Number,
		"int4":        Number,
		"int8":        Number,
		"integer":     Number,
		"float4":      Number,
		"float8":      Number,
		"numeric":     Number,
		"real":        Number,
		"money":       Number,
		"serial":      Number,
		"bigserial":   Number,
		"bool":        Boolean,
		"boolean":     Boolean,
		"bpchar":      String,
		"uuid":        String,
		"json":        String,
		"jsonb":       String,
		"citext":      String,
		"timestamptz": DateTime,
		"timetz":      DateTime,
		"interval":    String,
	},
	database.DriverSQLite: {
		"integer": Number,
		"numeric": Number,
		"real":    Number,
		"boolean": Boolean,
		"clob":    String,
		"nchar":   String,
	},
}

// Mapper resolves type tokens for one engine.
type Mapper struct {
	driver database.Driver
	kinds  map[string]Kind
}

// For returns the mapper for driver.
func For(driver database.Driver) (*Mapper, error) {
	add, ok := extras[driver]
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidConfig, "unsupported driver %q", driver)
	}

	kinds := make(map[string]Kind, len(base)+len(add))
	for token, kind := range base {
		kinds[token] = kind
	}
	for token, kind := range add {
		kinds[token] = kind
	}
	return &Mapper{driver: driver, kinds: kinds}, nil
}

// Driver returns the engine this mapper was built for.
func (m *Mapper) Driver() database.Driver {
	return m.driver
}

// Lookup maps a vendor token. Case and surrounding whitespace are ignored.
func (m *Mapper) Lookup(token string) Kind {
	return m.kinds[strings.ToLower(strings.TrimSpace(token))]
}

// Token is one vocabulary entry.
type Token struct {
	Name string
	Kind Kind
}

// Tokens lists the vocabulary grouped by kind, then alphabetically.
func (m *Mapper) Tokens() []Token {
	out := make([]Token, 0, len(m.kinds))
	for name, kind := range m.kinds {
		out = append(out, Token{Name: name, Kind: kind})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
