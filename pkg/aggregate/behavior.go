package aggregate

import (
	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/study"
)

// LatestCumulative keeps only cumulative rows, and of those only the rows at
// each subject's highest study year. All topics of that year are kept.
func LatestCumulative(obs []study.Observation) []study.Observation {
	latest := make(map[string]int)
	for _, o := range obs {
		if !o.ToDate {
			continue
		}
		if y, ok := latest[o.ID]; !ok || o.Year > y {
			latest[o.ID] = o.Year
		}
	}

	out := make([]study.Observation, 0, len(latest))
	for _, o := range obs {
		if o.ToDate && o.Year == latest[o.ID] {
			out = append(out, o)
		}
	}
	return out
}

// TopicShare is the normalized response distribution of one topic.
type TopicShare struct {
	Topic Topic
	// Group is the catalog group key.
	Group string
	// Proportions sum to 1 and are already reversed for reversed topics.
	Proportions [5]float64
	// Responses is the total count behind the proportions.
	Responses int
}

// TopicProportions sums the five response counts per topic and normalizes
// them to proportions. Topics in the catalog's reversed set have their
// buckets reversed. Topics with no responses and topics missing from the
// catalog are left out. The result follows catalog order.
func TopicProportions(obs []study.Observation, cat Catalog) ([]TopicShare, error) {
	sums := make(map[string][5]int)
	for _, o := range obs {
		s := sums[o.Topic]
		for k, n := range o.Counts {
			s[k] += n
		}
		sums[o.Topic] = s
	}

	var out []TopicShare
	for _, g := range cat.Groups {
		for _, t := range g.Topics {
			counts, ok := sums[t.Key]
			if !ok {
				continue
			}
			total := 0
			for _, n := range counts {
				total += n
			}
			if total == 0 {
				continue
			}

			ts := TopicShare{Topic: t, Group: g.Key, Responses: total}
			for k, n := range counts {
				ts.Proportions[k] = float64(n) / float64(total)
			}
			if cat.Reversed[t.Key] {
				ts.Proportions = reverse(ts.Proportions)
			}
			out = append(out, ts)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no behavior responses for any catalog topic")
	}
	return out, nil
}

// InGroup returns the shares belonging to the catalog group key.
func InGroup(shares []TopicShare, group string) []TopicShare {
	var out []TopicShare
	for _, s := range shares {
		if s.Group == group {
			out = append(out, s)
		}
	}
	return out
}

func reverse(p [5]float64) [5]float64 {
	return [5]float64{p[4], p[3], p[2], p[1], p[0]}
}
