package aggregate

import (
	"fmt"
	"math"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/study"
	"github.com/datacommons/dogviz/pkg/table"
)

const daysPerYear = 365.25

// ElapsedYears returns floor((event - enrolled) / 365.25) in whole years.
// An event before enrollment counts as zero. The second result is false
// when either date is null, in which case the elapsed time is undefined.
func ElapsedYears(event, enrolled table.NullDate) (int, bool) {
	if !event.Valid || !enrolled.Valid {
		return 0, false
	}
	days := event.Date.DaysSince(enrolled.Date)
	if days <= 0 {
		return 0, true
	}
	return int(math.Floor(float64(days) / daysPerYear)), true
}

// Relabel returns the status a subject had at a snapshot whose threshold is
// the given number of study years. Without a known event the status is left
// alone. Otherwise the subject counts as sterilized when the event happened
// within threshold years of enrollment and as intact when it came later.
func Relabel(status study.Status, elapsed int, known bool, threshold int) study.Status {
	if !known {
		return status
	}
	if elapsed <= threshold {
		return status.Sterile()
	}
	return status.Intact()
}

// Snapshots are the study years at which status shares are evaluated, in
// addition to the baseline at enrollment.
type Snapshots struct {
	Middle  int
	Embargo int
}

// DefaultSnapshots returns the snapshots for an embargo year, with the
// midpoint at half of it rounded down.
func DefaultSnapshots(embargo int) Snapshots {
	return Snapshots{Middle: embargo / 2, Embargo: embargo}
}

// Validate checks 0 < Middle < Embargo.
func (s Snapshots) Validate() error {
	if s.Embargo <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "embargo year must be at least 2, got %d", s.Embargo)
	}
	if s.Middle <= 0 || s.Middle >= s.Embargo {
		return errors.New(errors.ErrCodeInvalidConfig,
			"middle year must be between 1 and %d, got %d", s.Embargo-1, s.Middle)
	}
	return nil
}

// snapshot is one evaluation point.
type snapshot struct {
	name      string
	threshold int
}

func (s Snapshots) points() []snapshot {
	return []snapshot{
		{"Baseline", 0},
		{fmt.Sprintf("Year %d", s.Middle), s.Middle},
		{fmt.Sprintf("Year %d", s.Embargo), s.Embargo},
	}
}

// Names returns the snapshot labels in chart order.
func (s Snapshots) Names() []string {
	pts := s.points()
	names := make([]string, len(pts))
	for i, p := range pts {
		names[i] = p.name
	}
	return names
}

// Share is one (label, percentage, group) row of a derived relation.
type Share struct {
	Label   string
	Percent float64
	Group   string
}

// StatusOverTime relabels every subject at the baseline, middle and embargo
// snapshots and returns, per snapshot, the share of subjects in each of the
// four statuses. Rows are grouped by snapshot and follow [study.Statuses]
// within a group; statuses nobody holds appear with 0%.
func StatusOverTime(subjects []study.Subject, snaps Snapshots) ([]Share, error) {
	if err := snaps.Validate(); err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no subjects to compute status shares from")
	}

	type elapsed struct {
		years int
		known bool
	}
	el := make([]elapsed, len(subjects))
	for i, s := range subjects {
		el[i].years, el[i].known = ElapsedYears(s.Sterilized, s.Enrolled)
	}

	total := float64(len(subjects))
	out := make([]Share, 0, 3*len(study.Statuses))
	for _, pt := range snaps.points() {
		counts := make(map[study.Status]int, len(study.Statuses))
		for i, s := range subjects {
			counts[Relabel(s.Status, el[i].years, el[i].known, pt.threshold)]++
		}
		for _, st := range study.Statuses {
			out = append(out, Share{
				Label:   st.String(),
				Percent: 100 * float64(counts[st]) / total,
				Group:   pt.name,
			})
		}
	}
	return out, nil
}
