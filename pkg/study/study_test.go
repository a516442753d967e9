package study

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"Male Intact", MaleIntact, false},
		{"female spayed", FemaleSpayed, false},
		{"Neutered Male", MaleNeutered, false},
		{"INTACT FEMALE", FemaleIntact, false},
		{" Female Intact ", FemaleIntact, false},
		{"Neutered", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStatusSex(t *testing.T) {
	for _, s := range Statuses {
		if s.Intact().Female() != s.Female() || s.Sterile().Female() != s.Female() {
			t.Errorf("%v: Intact/Sterile changed sex", s)
		}
		if s.Intact().Sterilized() {
			t.Errorf("%v.Intact() = %v is sterilized", s, s.Intact())
		}
		if !s.Sterile().Sterilized() {
			t.Errorf("%v.Sterile() = %v is not sterilized", s, s.Sterile())
		}
	}
	if got := Status(9).String(); got != "Status(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestLoadSubjects(t *testing.T) {
	path := writeFile(t, "dog_profile.csv",
		"subject_id,birth_date,enrolled_date,sex_status,spay_neuter_date,death_date\n"+
			"0001,2018-03,2020-01-01,Intact Female,2021-05-02,\n"+
			"0002,2015-11-20,2020-02,Male Neutered,,2023-01\n")

	got, err := LoadSubjects(path)
	if err != nil {
		t.Fatalf("LoadSubjects: %v", err)
	}

	want := []Subject{
		{
			ID:         "0001",
			Birth:      table.DateOf(2018, 3, 1),
			Enrolled:   table.DateOf(2020, 1, 1),
			Status:     FemaleIntact,
			Sterilized: table.DateOf(2021, 5, 2),
		},
		{
			ID:       "0002",
			Birth:    table.DateOf(2015, 11, 20),
			Enrolled: table.DateOf(2020, 2, 1),
			Status:   MaleNeutered,
			Death:    table.DateOf(2023, 1, 1),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSubjects() mismatch (-want +got):\n%s", diff)
	}
	if !got[0].Alive() || got[1].Alive() {
		t.Error("Alive() does not follow death_date")
	}
}

func TestLoadSubjectsDuplicateID(t *testing.T) {
	path := writeFile(t, "dog_profile.csv",
		"subject_id,birth_date,enrolled_date,sex_status\n"+
			"7,2018-03,2020-01,Male Intact\n"+
			"7,2019-03,2020-01,Male Intact\n")

	_, err := LoadSubjects(path)
	if !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Fatalf("got %v, want DUPLICATE_ID", err)
	}
}

func TestLoadEvents(t *testing.T) {
	path := writeFile(t, "female_reproductive_history.csv",
		"subject_id,year_in_study,spay_date\n"+
			"1,1,2021-01-01\n"+
			"1,2,2022-01\n"+
			"2,,\n")

	got, err := LoadEvents(path, ColSpayDate)
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	want := []Event{
		{ID: "1", Date: table.DateOf(2021, 1, 1), Year: 1},
		{ID: "1", Date: table.DateOf(2022, 1, 1), Year: 2},
		{ID: "2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadEvents() mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadEvents(path, ColNeuterDate); !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("wrong date column: got %v, want MISSING_COLUMN", err)
	}
}

func TestLoadObservations(t *testing.T) {
	header := "subject_id,year_in_study,topic,count_0,count_1,count_2,count_3,count_4,to_date\n"
	path := writeFile(t, "behavior_summary.csv", header+
		"1,2,score_energy,1,2,3,4,5,True\n"+
		"1,1,score_energy,0,0,1.0,0,0,no\n")

	got, err := LoadObservations(path)
	if err != nil {
		t.Fatalf("LoadObservations: %v", err)
	}
	want := []Observation{
		{ID: "1", Year: 2, Topic: "score_energy", Counts: [5]int{1, 2, 3, 4, 5}, ToDate: true},
		{ID: "1", Year: 1, Topic: "score_energy", Counts: [5]int{0, 0, 1, 0, 0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadObservations() mismatch (-want +got):\n%s", diff)
	}

	bad := []string{
		"1,2,score_energy,-1,0,0,0,0,true\n",
		"1,2,score_energy,0.5,0,0,0,0,true\n",
		"1,x,score_energy,0,0,0,0,0,true\n",
		"1,2,score_energy,0,0,0,0,0,maybe\n",
	}
	for _, row := range bad {
		_, err := LoadObservations(writeFile(t, "b.csv", header+row))
		if !errors.Is(err, errors.ErrCodeInvalidValue) {
			t.Errorf("row %q: got %v, want INVALID_VALUE", row, err)
		}
	}
}
