package table

import (
	"regexp"
	"strings"

	"cloud.google.com/go/civil"
)

// Kind is the coercion applied to a declared column.
type Kind int

const (
	// Text columns are checked for presence only. Identifiers are declared
	// as Text so they stay opaque (leading zeros survive).
	Text Kind = iota
	// Date columns hold YYYY-MM or YYYY-MM-DD values; empty cells are null.
	Date
	// Category columns hold one of a fixed set of levels.
	Category
)

// Column declares one expected column.
type Column struct {
	Name string
	Kind Kind

	// Optional columns may be absent from the header. An absent optional
	// date column reads as all-null.
	Optional bool

	// Levels lists the canonical category values (Category only).
	// Matching is case-insensitive.
	Levels []string

	// Aliases maps alternative spellings to a canonical level
	// (Category only). Keys are matched case-insensitively.
	Aliases map[string]string
}

// Schema is the set of columns a loader expects in a file.
type Schema struct {
	Columns []Column
}

// canonical resolves a raw category cell to its canonical level.
func (c Column) canonical(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	for _, l := range c.Levels {
		if strings.EqualFold(v, l) {
			return l, true
		}
	}
	for alias, l := range c.Aliases {
		if strings.EqualFold(v, alias) {
			return l, true
		}
	}
	return "", false
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}(-\d{2})?$`)

// ParseDate parses a YYYY-MM or YYYY-MM-DD cell. Month-only values fall on
// the first day of the month. An empty cell is a valid null.
func ParseDate(s string) (NullDate, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullDate{}, true
	}
	if !dateRe.MatchString(s) {
		return NullDate{}, false
	}
	if len(s) == len("2006-01") {
		s += "-01"
	}
	d, err := civil.ParseDate(s)
	if err != nil || !d.IsValid() {
		return NullDate{}, false
	}
	return NullDate{Date: d, Valid: true}, true
}
