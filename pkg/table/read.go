package table

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/datacommons/dogviz/pkg/errors"
)

const bom = "\ufeff"

// Read decodes comma-delimited text with a header row from r and coerces the
// columns declared in s. The source label is used in error messages only.
//
// Read does not close r.
func Read(r io.Reader, source string, s Schema) (*Relation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: empty file, expected a header row", source)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: read header", source)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rel := &Relation{
		Source:  source,
		Columns: header,
		dates:   make(map[string][]NullDate),
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		if _, dup := rel.index[name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: duplicate column %q in header", source, name)
		}
		rel.index[name] = i
	}

	for _, c := range s.Columns {
		if !rel.Has(c.Name) && !c.Optional {
			return nil, errors.New(errors.ErrCodeMissingColumn, "%s: column %q not found", source, c.Name)
		}
	}

	for {
		rec, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", source)
		}
		line, _ := cr.FieldPos(0)
		if err := rel.coerce(rec, line, s); err != nil {
			return nil, err
		}
		rel.rows = append(rel.rows, rec)
		rel.lines = append(rel.lines, line)
	}

	return rel, nil
}

// coerce checks and converts the declared cells of one record in place.
func (r *Relation) coerce(rec []string, line int, s Schema) error {
	for _, c := range s.Columns {
		j, ok := r.index[c.Name]
		if !ok {
			continue
		}
		switch c.Kind {
		case Date:
			d, ok := ParseDate(rec[j])
			if !ok {
				return errors.New(errors.ErrCodeInvalidDate,
					"%s:%d: column %q: cannot parse %q as YYYY-MM or YYYY-MM-DD", r.Source, line, c.Name, rec[j])
			}
			r.dates[c.Name] = append(r.dates[c.Name], d)
		case Category:
			level, ok := c.canonical(rec[j])
			if !ok {
				return errors.New(errors.ErrCodeInvalidCategory,
					"%s:%d: column %q: %q is not one of %s", r.Source, line, c.Name, rec[j], strings.Join(c.Levels, ", "))
			}
			rec[j] = level
		case Text:
			rec[j] = strings.TrimSpace(rec[j])
		default:
			return errors.New(errors.ErrCodeInternal, "column %q: unknown kind %d", c.Name, c.Kind)
		}
	}
	return nil
}

// Load opens the file at path and decodes it with [Read].
func Load(path string, s Schema) (*Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path, s)
}
