// Package config loads dogviz settings from a TOML file.
//
// A settings file names where the study extracts live, where the charts go
// and the study-year parameters of the status chart:
//
//	data_dir     = "./data/"
//	output_dir   = "./visualizations_output/"
//	font_path    = "/usr/local/share/fonts/Montserrat-Bold.ttf"
//	embargo_year = 8
//	middle_year  = 4
//	reversed_topics = ["score_trainability"]
//
//	[inputs]
//	profile       = "dog_profile.csv"
//	female_events = "female_reproductive_history.csv"
//	male_events   = "male_reproductive_history.csv"
//	behavior      = "behavior_summary.csv"
//
// Every key is optional. Unknown keys are rejected so that a typo does not
// silently fall back to a default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/datacommons/dogviz/pkg/aggregate"
	"github.com/datacommons/dogviz/pkg/chart"
	"github.com/datacommons/dogviz/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFile is the settings file looked up in the working directory.
	DefaultFile = "settings.toml"

	DefaultDataDir   = "./data/"
	DefaultOutputDir = "./visualizations_output/"

	// DefaultEmbargoYear matches the embargo year of the study data release.
	DefaultEmbargoYear = 8

	DefaultProfile      = "dog_profile.csv"
	DefaultFemaleEvents = "female_reproductive_history.csv"
	DefaultMaleEvents   = "male_reproductive_history.csv"
	DefaultBehavior     = "behavior_summary.csv"
)

// =============================================================================
// Settings
// =============================================================================

// Settings is the decoded settings file.
type Settings struct {
	DataDir   string `toml:"data_dir"`
	OutputDir string `toml:"output_dir"`
	// FontPath is a TrueType/OpenType file. Empty selects the embedded
	// default face.
	FontPath string `toml:"font_path"`
	DPI      int    `toml:"dpi"`

	EmbargoYear int `toml:"embargo_year"`
	// MiddleYear defaults to half of EmbargoYear, rounded down.
	MiddleYear int `toml:"middle_year"`
	// ReversedTopics are behavior topics whose scale runs the other way.
	// A nil list selects [aggregate.DefaultReversed]; an empty list reverses
	// nothing.
	ReversedTopics []string `toml:"reversed_topics"`

	Inputs Inputs `toml:"inputs"`
}

// Inputs are the input file names, relative to DataDir unless absolute.
// The event files are optional; setting one to "" skips it.
type Inputs struct {
	Profile      string `toml:"profile"`
	FemaleEvents string `toml:"female_events"`
	MaleEvents   string `toml:"male_events"`
	Behavior     string `toml:"behavior"`
}

// Default returns the settings used when no file is present.
func Default() *Settings {
	s := &Settings{
		Inputs: Inputs{
			FemaleEvents: DefaultFemaleEvents,
			MaleEvents:   DefaultMaleEvents,
		},
	}
	s.SetDefaults()
	return s
}

// Load decodes the settings file at path and applies defaults. Event file
// names not mentioned in the file keep their defaults.
func Load(path string) (*Settings, error) {
	s := &Settings{
		Inputs: Inputs{
			FemaleEvents: DefaultFemaleEvents,
			MaleEvents:   DefaultMaleEvents,
		},
	}
	md, err := toml.DecodeFile(path, s)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "settings file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	s.SetDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadOrDefault loads path if it exists and returns [Default] otherwise.
func LoadOrDefault(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// SetDefaults fills in unset values. Event file names are left alone
// because an empty name means the file is skipped.
func (s *Settings) SetDefaults() {
	if s.DataDir == "" {
		s.DataDir = DefaultDataDir
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if s.DPI == 0 {
		s.DPI = chart.DefaultDPI
	}
	if s.EmbargoYear == 0 {
		s.EmbargoYear = DefaultEmbargoYear
	}
	if s.MiddleYear == 0 {
		s.MiddleYear = s.EmbargoYear / 2
	}
	if s.ReversedTopics == nil {
		s.ReversedTopics = append([]string(nil), aggregate.DefaultReversed...)
	}
	if s.Inputs.Profile == "" {
		s.Inputs.Profile = DefaultProfile
	}
	if s.Inputs.Behavior == "" {
		s.Inputs.Behavior = DefaultBehavior
	}
}

// Validate checks the study years, DPI and reversed topic keys.
func (s *Settings) Validate() error {
	if err := s.Snapshots().Validate(); err != nil {
		return err
	}
	if s.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be positive, got %d", s.DPI)
	}
	cat := aggregate.DefaultCatalog()
	for _, key := range s.ReversedTopics {
		if _, _, ok := cat.Lookup(key); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "reversed_topics: unknown topic %q", key)
		}
	}
	return nil
}

// Snapshots returns the status chart snapshots.
func (s *Settings) Snapshots() aggregate.Snapshots {
	return aggregate.Snapshots{Middle: s.MiddleYear, Embargo: s.EmbargoYear}
}

// Catalog returns the behavior topic catalog with the configured reversed
// topics.
func (s *Settings) Catalog() aggregate.Catalog {
	return aggregate.DefaultCatalog().WithReversed(s.ReversedTopics)
}

// InputPath resolves an input file name against DataDir. An empty name
// stays empty.
func (s *Settings) InputPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.DataDir, name)
}
