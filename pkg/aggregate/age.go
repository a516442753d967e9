// Package aggregate turns study records into the small relations the charts
// draw: age counts, status shares per snapshot and behavior topic
// proportions.
//
// Everything here is a pure function of its inputs. Nothing is cached and
// every call recomputes from the records it is given.
package aggregate

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/study"
)

// AgeInYears returns the number of whole years between birth and asOf using
// calendar-year subtraction, minus one when the as-of month precedes the
// birth month. Days are ignored.
func AgeInYears(birth, asOf civil.Date) int {
	age := asOf.Year - birth.Year
	if asOf.Month < birth.Month {
		age--
	}
	return age
}

// AgeCount is one bar of the age distribution.
type AgeCount struct {
	Age   int
	Count int
}

// AgeOptions controls which subjects are counted.
type AgeOptions struct {
	// IncludeDeceased counts subjects with a death date as well.
	IncludeDeceased bool
}

// AgeResult is the age distribution plus bookkeeping for logging.
type AgeResult struct {
	Counts []AgeCount
	// Total is the number of subjects counted.
	Total int
	// Skipped counts eligible subjects without a usable birth date (null, or
	// after the as-of date).
	Skipped int
	// Deceased counts subjects left out because they have a death date.
	Deceased int
}

// AgeDistribution counts subjects per whole-year age as of asOf. Ages are
// ascending and only observed ages appear; there is no zero fill.
func AgeDistribution(subjects []study.Subject, asOf civil.Date, opts AgeOptions) (AgeResult, error) {
	var res AgeResult
	counts := make(map[int]int)
	for _, s := range subjects {
		if !opts.IncludeDeceased && !s.Alive() {
			res.Deceased++
			continue
		}
		if !s.Birth.Valid || asOf.Before(s.Birth.Date) {
			res.Skipped++
			continue
		}
		counts[AgeInYears(s.Birth.Date, asOf)]++
		res.Total++
	}
	if res.Total == 0 {
		return res, errors.New(errors.ErrCodeNoData, "no subjects with a birth date to count as of %s", asOf)
	}

	res.Counts = make([]AgeCount, 0, len(counts))
	for age, n := range counts {
		res.Counts = append(res.Counts, AgeCount{Age: age, Count: n})
	}
	sort.Slice(res.Counts, func(i, j int) bool { return res.Counts[i].Age < res.Counts[j].Age })
	return res, nil
}
