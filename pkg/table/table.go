// Package table reads delimited study exports into in-memory relations.
//
// A [Relation] is a header plus string rows. Columns declared in a [Schema]
// are coerced on load: date columns become [NullDate] values and categorical
// columns are checked against their levels and stored in canonical spelling.
// Every other column is kept exactly as delivered.
//
// Loading is all-or-nothing. A missing declared column, an unparseable date,
// an unknown category level or a ragged row fails the whole load with an
// error that names the file, line and column.
package table

import (
	"time"

	"cloud.google.com/go/civil"
)

// NullDate is a calendar date that may be absent (an empty cell).
type NullDate struct {
	Date  civil.Date
	Valid bool
}

// DateOf returns a valid NullDate for the given calendar day.
func DateOf(year int, month int, day int) NullDate {
	return NullDate{Date: civil.Date{Year: year, Month: time.Month(month), Day: day}, Valid: true}
}

// String returns the ISO form of the date, or "" when null.
func (d NullDate) String() string {
	if !d.Valid {
		return ""
	}
	return d.Date.String()
}

// Relation is an in-memory table loaded from one delimited file.
type Relation struct {
	// Source is the path (or label) the relation was read from.
	Source string
	// Columns is the header row in file order.
	Columns []string

	rows  [][]string
	lines []int
	dates map[string][]NullDate
	index map[string]int
}

// Len returns the number of data rows.
func (r *Relation) Len() int {
	return len(r.rows)
}

// Has reports whether the relation has a column with the given name.
func (r *Relation) Has(col string) bool {
	_, ok := r.index[col]
	return ok
}

// String returns the cell at row i, column col. Missing columns read as "".
// Categorical columns return their canonical level.
func (r *Relation) String(i int, col string) string {
	j, ok := r.index[col]
	if !ok {
		return ""
	}
	return r.rows[i][j]
}

// Date returns the parsed date at row i for a declared date column.
// Undeclared or absent columns read as null.
func (r *Relation) Date(i int, col string) NullDate {
	ds, ok := r.dates[col]
	if !ok {
		return NullDate{}
	}
	return ds[i]
}

// Line returns the 1-based line in the source file where row i starts.
func (r *Relation) Line(i int) int {
	return r.lines[i]
}
