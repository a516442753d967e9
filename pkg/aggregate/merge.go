package aggregate

import (
	"github.com/datacommons/dogviz/pkg/study"
)

// LatestEvents reduces a history to one event per subject, keeping the row
// with the latest date. On equal dates the first row wins, and a row with a
// null date never replaces a dated one. Output order follows the first
// appearance of each identifier.
func LatestEvents(events []study.Event) []study.Event {
	idx := make(map[string]int, len(events))
	out := make([]study.Event, 0, len(events))
	for _, ev := range events {
		i, seen := idx[ev.ID]
		if !seen {
			idx[ev.ID] = len(out)
			out = append(out, ev)
			continue
		}
		cur := out[i]
		if ev.Date.Valid && (!cur.Date.Valid || ev.Date.Date.After(cur.Date.Date)) {
			out[i] = ev
		}
	}
	return out
}

// MergeStats reports what [MergeEvents] did with the event rows.
type MergeStats struct {
	Subjects int
	// Applied counts events that set a subject's sterilization date.
	Applied int
	// Unmatched counts events whose subject is not in the profile.
	Unmatched int
	// WrongSex counts female events on male subjects and the reverse.
	WrongSex int
	// Undated counts events without a date; they leave the subject as is.
	Undated int
}

// MergeEvents left-joins the cleaned female and male histories onto the
// subjects. Every subject is kept, so the profile stays the denominator of
// every share. A dated event replaces the subject's profile sterilization
// date. Female events only apply to female subjects and male events only
// to male subjects; other events are dropped and counted.
//
// The input slice is not modified.
func MergeEvents(subjects []study.Subject, female, male []study.Event) ([]study.Subject, MergeStats) {
	out := make([]study.Subject, len(subjects))
	copy(out, subjects)
	stats := MergeStats{Subjects: len(out)}

	byID := make(map[string]int, len(out))
	for i, s := range out {
		byID[s.ID] = i
	}

	apply := func(events []study.Event, wantFemale bool) {
		for _, ev := range LatestEvents(events) {
			i, ok := byID[ev.ID]
			switch {
			case !ok:
				stats.Unmatched++
			case out[i].Status.Female() != wantFemale:
				stats.WrongSex++
			case !ev.Date.Valid:
				stats.Undated++
			default:
				out[i].Sterilized = ev.Date
				stats.Applied++
			}
		}
	}
	apply(female, true)
	apply(male, false)

	return out, stats
}
