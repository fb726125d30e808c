// Package naming turns raw table and column identifiers into the singular
// PascalCase names used for generated classes, files and properties.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

// singularExceptions are trailing words that look plural to the inflection
// rules but are already singular (or mass nouns) in schema naming.
var singularExceptions = map[string]struct{}{
	"analytics": {},
	"data":      {},
	"media":     {},
	"metadata":  {},
	"news":      {},
	"series":    {},
	"species":   {},
	"status":    {},
}

func init() {
	inflection.AddIrregular("criterion", "criteria")
	inflection.AddUncountable("metadata", "data", "media")
}

// Normalize converts raw to a singular PascalCase identifier:
// "order_items" -> "OrderItem", "user-categories" -> "UserCategory".
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(raw string) string {
	pascal := pascalCase(raw)
	if pascal == "" {
		return ""
	}
	if _, ok := singularExceptions[strings.ToLower(lastWord(pascal))]; ok {
		return pascal
	}

	single := inflection.Singular(pascal)
	if single == "" || inflection.Singular(single) != single {
		return pascal
	}
	return single
}

// Class converts raw to the class name used for the generated declaration
// and its file. It is Normalize made safe as an identifier:
// "2024_sales" -> "_2024Sale", "###" -> "_".
func Class(raw string) string {
	return identifier(Normalize(raw))
}

// Property converts raw to the lower-camel property name of its normalized
// form: "created_at" -> "createdAt", "ID" -> "id", "url_path" -> "urlPath".
// Names that would not be valid identifiers get a leading underscore.
func Property(raw string) string {
	return identifier(lowerCamel(Normalize(raw)))
}

// identifier prefixes an underscore when s is empty or starts with a digit.
func identifier(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if s == "" || unicode.IsDigit(r) {
		return "_" + s
	}
	return s
}

// pascalCase splits on every rune that is neither a letter nor a digit and
// upper-cases the first rune of each segment. The rest of a segment is kept
// as is so camelCase input survives.
func pascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, part := range parts {
		r, size := utf8.DecodeRuneInString(part)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(part[size:])
	}
	return sb.String()
}

// lastWord returns the final PascalCase word of s. A trailing acronym
// ("UserID") counts as one word.
func lastWord(s string) string {
	runes := []rune(s)
	i := len(runes)
	for i > 0 && !unicode.IsUpper(runes[i-1]) {
		i--
	}
	if i == len(runes) {
		for i > 0 && unicode.IsUpper(runes[i-1]) {
			i--
		}
		return string(runes[i:])
	}
	if i > 0 {
		i--
	}
	return string(runes[i:])
}

func lowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n == 0 {
		return s
	}
	// Keep the last capital of a leading acronym when it starts the next
	// word: URLPath -> urlPath.
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
