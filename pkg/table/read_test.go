package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datacommons/dogviz/pkg/errors"
)

var testSchema = Schema{Columns: []Column{
	{Name: "subject_id", Kind: Text},
	{Name: "birth_date", Kind: Date},
	{Name: "death_date", Kind: Date, Optional: true},
	{Name: "sex_status", Kind: Category,
		Levels:  []string{"Male Intact", "Female Spayed"},
		Aliases: map[string]string{"Intact Male": "Male Intact"}},
}}

func TestRead(t *testing.T) {
	in := "\ufeffsubject_id,birth_date,sex_status,notes\n" +
		"007,2020-06,male intact,  keep as is\n" +
		"8, 2019-02-14,Intact Male,\n" +
		"9,,FEMALE SPAYED,x\n"

	rel, err := Read(strings.NewReader(in), "profile.csv", testSchema)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if rel.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", rel.Len())
	}
	if got := rel.String(0, "subject_id"); got != "007" {
		t.Errorf("subject_id = %q, want leading zeros kept", got)
	}
	if got := rel.Date(0, "birth_date"); got != DateOf(2020, 6, 1) {
		t.Errorf("month-only date = %v, want 2020-06-01", got)
	}
	if got := rel.Date(1, "birth_date"); got != DateOf(2019, 2, 14) {
		t.Errorf("full date = %v, want 2019-02-14", got)
	}
	if got := rel.Date(2, "birth_date"); got.Valid {
		t.Errorf("empty date = %v, want null", got)
	}
	if got := rel.Date(0, "death_date"); got.Valid {
		t.Errorf("absent optional column should read as null, got %v", got)
	}

	wantStatus := []string{"Male Intact", "Male Intact", "Female Spayed"}
	for i, want := range wantStatus {
		if got := rel.String(i, "sex_status"); got != want {
			t.Errorf("row %d sex_status = %q, want %q", i, got, want)
		}
	}

	// Undeclared columns are not touched.
	if got := rel.String(0, "notes"); got != "keep as is" {
		t.Errorf("notes = %q", got)
	}
	if got := rel.Line(2); got != 4 {
		t.Errorf("Line(2) = %d, want 4", got)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
		msg  string
	}{
		{
			name: "empty",
			in:   "",
			code: errors.ErrCodeInvalidInput,
			msg:  "empty file",
		},
		{
			name: "missing column",
			in:   "subject_id,sex_status\n1,Male Intact\n",
			code: errors.ErrCodeMissingColumn,
			msg:  `"birth_date"`,
		},
		{
			name: "bad date",
			in:   "subject_id,birth_date,sex_status\n1,2020-06,Male Intact\n2,06/2020,Male Intact\n",
			code: errors.ErrCodeInvalidDate,
			msg:  "t.csv:3",
		},
		{
			name: "impossible date",
			in:   "subject_id,birth_date,sex_status\n1,2020-13-01,Male Intact\n",
			code: errors.ErrCodeInvalidDate,
			msg:  "2020-13-01",
		},
		{
			name: "unknown category",
			in:   "subject_id,birth_date,sex_status\n1,2020-06,Neutered\n",
			code: errors.ErrCodeInvalidCategory,
			msg:  `"Neutered"`,
		},
		{
			name: "ragged row",
			in:   "subject_id,birth_date,sex_status\n1,2020-06\n",
			code: errors.ErrCodeInvalidInput,
			msg:  "wrong number of fields",
		},
		{
			name: "duplicate header",
			in:   "subject_id,birth_date,sex_status,birth_date\n",
			code: errors.ErrCodeInvalidInput,
			msg:  "duplicate column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), "t.csv", testSchema)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.csv")
	if err := os.WriteFile(path, []byte("subject_id,birth_date,sex_status\n1,2021-01,Female Spayed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rel, err := Load(path, testSchema)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rel.Source != path {
		t.Errorf("Source = %q, want %q", rel.Source, path)
	}

	_, err = Load(filepath.Join(dir, "missing.csv"), testSchema)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   NullDate
		wantOK bool
	}{
		{"2024-05", DateOf(2024, 5, 1), true},
		{"2024-05-31", DateOf(2024, 5, 31), true},
		{"", NullDate{}, true},
		{"  ", NullDate{}, true},
		{"2024-02-30", NullDate{}, false},
		{"2024-5", NullDate{}, false},
		{"2024/05/01", NullDate{}, false},
		{"2024-05-01T00:00:00", NullDate{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseDate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
