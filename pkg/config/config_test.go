package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datacommons/dogviz/pkg/errors"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	s := Default()
	want := &Settings{
		DataDir:        DefaultDataDir,
		OutputDir:      DefaultOutputDir,
		DPI:            100,
		EmbargoYear:    8,
		MiddleYear:     4,
		ReversedTopics: []string{"score_trainability"},
		Inputs: Inputs{
			Profile:      DefaultProfile,
			FemaleEvents: DefaultFemaleEvents,
			MaleEvents:   DefaultMaleEvents,
			Behavior:     DefaultBehavior,
		},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
data_dir = "/srv/extract"
output_dir = "out"
embargo_year = 10
reversed_topics = []

[inputs]
profile = "profile_2024.csv"
female_events = ""
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.MiddleYear != 5 {
		t.Errorf("MiddleYear = %d, want 5", s.MiddleYear)
	}
	if len(s.ReversedTopics) != 0 {
		t.Errorf("ReversedTopics = %v, want none", s.ReversedTopics)
	}
	if s.Catalog().Reversed["score_trainability"] {
		t.Error("explicit empty reversed list still reverses trainability")
	}
	if got := s.InputPath(s.Inputs.Profile); got != filepath.Join("/srv/extract", "profile_2024.csv") {
		t.Errorf("profile path = %q", got)
	}
	if s.Inputs.FemaleEvents != "" || s.InputPath(s.Inputs.FemaleEvents) != "" {
		t.Errorf("female events = %q, want skipped", s.Inputs.FemaleEvents)
	}
	if s.Inputs.MaleEvents != DefaultMaleEvents {
		t.Errorf("male events = %q, want default", s.Inputs.MaleEvents)
	}
	if got := s.Snapshots(); got.Middle != 5 || got.Embargo != 10 {
		t.Errorf("Snapshots = %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode errors.Code
		wantMsg  string
	}{
		{"unknown key", "embargo_yaer = 8\n", errors.ErrCodeInvalidConfig, "embargo_yaer"},
		{"unknown input", "[inputs]\nprofiles = \"x.csv\"\n", errors.ErrCodeInvalidConfig, "inputs.profiles"},
		{"bad syntax", "data_dir = \n", errors.ErrCodeInvalidConfig, ""},
		{"middle after embargo", "embargo_year = 8\nmiddle_year = 8\n", errors.ErrCodeInvalidConfig, "middle year"},
		{"embargo too small", "embargo_year = 1\n", errors.ErrCodeInvalidConfig, "embargo year"},
		{"unknown topic", "reversed_topics = [\"score_napping\"]\n", errors.ErrCodeInvalidConfig, "score_napping"},
		{"negative dpi", "dpi = -1\n", errors.ErrCodeInvalidConfig, "dpi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSettings(t, tt.body))
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("got %v, want %s", err, tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := Load(missing); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load: got %v, want FILE_NOT_FOUND", err)
	}

	s, err := LoadOrDefault(missing)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if diff := cmp.Diff(Default(), s); diff != "" {
		t.Errorf("LoadOrDefault mismatch (-want +got):\n%s", diff)
	}
}

func TestInputPath(t *testing.T) {
	s := Default()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"dog_profile.csv", filepath.Join(DefaultDataDir, "dog_profile.csv")},
		{"/abs/file.csv", "/abs/file.csv"},
	}
	for _, tt := range tests {
		if got := s.InputPath(tt.in); got != tt.want {
			t.Errorf("InputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
