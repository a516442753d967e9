package study

import (
	"strconv"
	"strings"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/table"
)

// Column names used by the study exports.
const (
	ColSubjectID      = "subject_id"
	ColBirthDate      = "birth_date"
	ColEnrolledDate   = "enrolled_date"
	ColSexStatus      = "sex_status"
	ColSpayNeuterDate = "spay_neuter_date"
	ColDeathDate      = "death_date"

	ColSpayDate    = "spay_date"
	ColNeuterDate  = "neuter_date"
	ColYearInStudy = "year_in_study"

	ColTopic  = "topic"
	ColToDate = "to_date"
)

// CountColumns are the five ordinal response buckets of a behavior row.
var CountColumns = [5]string{"count_0", "count_1", "count_2", "count_3", "count_4"}

// Subject is one dog from the profile file.
type Subject struct {
	ID       string
	Birth    table.NullDate
	Enrolled table.NullDate
	Status   Status

	// Sterilized is the spay or neuter date, null when none is known.
	Sterilized table.NullDate
	Death      table.NullDate
}

// Alive reports whether the subject has no recorded death date.
func (s Subject) Alive() bool {
	return !s.Death.Valid
}

// Event is one row of a reproductive history file.
type Event struct {
	ID   string
	Date table.NullDate
	// Year is the study year the row was reported in, 0 when absent.
	Year int
}

// Observation is one behavior summary row.
type Observation struct {
	ID     string
	Year   int
	Topic  string
	Counts [5]int
	// ToDate marks the cumulative row covering every year up to Year.
	ToDate bool
}

// SubjectSchema is the profile file layout.
var SubjectSchema = table.Schema{Columns: []table.Column{
	{Name: ColSubjectID, Kind: table.Text},
	{Name: ColBirthDate, Kind: table.Date},
	{Name: ColEnrolledDate, Kind: table.Date},
	StatusColumn(ColSexStatus),
	{Name: ColSpayNeuterDate, Kind: table.Date, Optional: true},
	{Name: ColDeathDate, Kind: table.Date, Optional: true},
}}

// EventSchema returns the layout of a history file whose event date lives
// in dateCol.
func EventSchema(dateCol string) table.Schema {
	return table.Schema{Columns: []table.Column{
		{Name: ColSubjectID, Kind: table.Text},
		{Name: dateCol, Kind: table.Date},
		{Name: ColYearInStudy, Kind: table.Text, Optional: true},
	}}
}

// ObservationSchema is the behavior summary layout.
var ObservationSchema = table.Schema{Columns: []table.Column{
	{Name: ColSubjectID, Kind: table.Text},
	{Name: ColYearInStudy, Kind: table.Text},
	{Name: ColTopic, Kind: table.Text},
	{Name: CountColumns[0], Kind: table.Text},
	{Name: CountColumns[1], Kind: table.Text},
	{Name: CountColumns[2], Kind: table.Text},
	{Name: CountColumns[3], Kind: table.Text},
	{Name: CountColumns[4], Kind: table.Text},
	{Name: ColToDate, Kind: table.Text},
}}

// LoadSubjects reads the profile file at path.
func LoadSubjects(path string) ([]Subject, error) {
	rel, err := table.Load(path, SubjectSchema)
	if err != nil {
		return nil, err
	}
	return Subjects(rel)
}

// Subjects decodes a relation loaded with [SubjectSchema]. Identifiers must
// be unique.
func Subjects(rel *table.Relation) ([]Subject, error) {
	out := make([]Subject, 0, rel.Len())
	seen := make(map[string]int, rel.Len())
	for i := 0; i < rel.Len(); i++ {
		id := rel.String(i, ColSubjectID)
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidValue, "%s:%d: empty %s", rel.Source, rel.Line(i), ColSubjectID)
		}
		if first, dup := seen[id]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateID,
				"%s:%d: subject %q already defined on line %d", rel.Source, rel.Line(i), id, first)
		}
		seen[id] = rel.Line(i)

		status, err := ParseStatus(rel.String(i, ColSexStatus))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCategory, err, "%s:%d", rel.Source, rel.Line(i))
		}
		out = append(out, Subject{
			ID:         id,
			Birth:      rel.Date(i, ColBirthDate),
			Enrolled:   rel.Date(i, ColEnrolledDate),
			Status:     status,
			Sterilized: rel.Date(i, ColSpayNeuterDate),
			Death:      rel.Date(i, ColDeathDate),
		})
	}
	return out, nil
}

// LoadEvents reads a reproductive history file whose event date is in
// dateCol (spay_date or neuter_date).
func LoadEvents(path, dateCol string) ([]Event, error) {
	rel, err := table.Load(path, EventSchema(dateCol))
	if err != nil {
		return nil, err
	}
	return Events(rel, dateCol)
}

// Events decodes a relation loaded with [EventSchema].
func Events(rel *table.Relation, dateCol string) ([]Event, error) {
	out := make([]Event, 0, rel.Len())
	for i := 0; i < rel.Len(); i++ {
		ev := Event{
			ID:   rel.String(i, ColSubjectID),
			Date: rel.Date(i, dateCol),
		}
		if ev.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidValue, "%s:%d: empty %s", rel.Source, rel.Line(i), ColSubjectID)
		}
		if raw := rel.String(i, ColYearInStudy); raw != "" {
			y, err := parseCount(raw)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidValue, err, "%s:%d: column %q", rel.Source, rel.Line(i), ColYearInStudy)
			}
			ev.Year = y
		}
		out = append(out, ev)
	}
	return out, nil
}

// LoadObservations reads the behavior summary file at path.
func LoadObservations(path string) ([]Observation, error) {
	rel, err := table.Load(path, ObservationSchema)
	if err != nil {
		return nil, err
	}
	return Observations(rel)
}

// Observations decodes a relation loaded with [ObservationSchema].
func Observations(rel *table.Relation) ([]Observation, error) {
	out := make([]Observation, 0, rel.Len())
	for i := 0; i < rel.Len(); i++ {
		o := Observation{
			ID:    rel.String(i, ColSubjectID),
			Topic: rel.String(i, ColTopic),
		}
		fail := func(col string, err error) error {
			return errors.Wrap(errors.ErrCodeInvalidValue, err, "%s:%d: column %q", rel.Source, rel.Line(i), col)
		}

		var err error
		if o.Year, err = parseCount(rel.String(i, ColYearInStudy)); err != nil {
			return nil, fail(ColYearInStudy, err)
		}
		for k, col := range CountColumns {
			if o.Counts[k], err = parseCount(rel.String(i, col)); err != nil {
				return nil, fail(col, err)
			}
		}
		if o.ToDate, err = parseFlag(rel.String(i, ColToDate)); err != nil {
			return nil, fail(ColToDate, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// parseCount accepts non-negative integers, including float spellings with
// no fractional part ("3.0") that spreadsheet exports produce.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, errors.New(errors.ErrCodeInvalidValue, "%q is not a whole number", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidValue, "%d is negative", n)
	}
	return n, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, errors.New(errors.ErrCodeInvalidValue, "%q is not a boolean", s)
}
