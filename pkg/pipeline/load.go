package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/datacommons/dogviz/pkg/aggregate"
	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/observability"
	"github.com/datacommons/dogviz/pkg/study"
)

// inputs holds the records loaded for one run.
type inputs struct {
	subjects     []study.Subject
	observations []study.Observation
	merge        aggregate.MergeStats
}

// load reads every input file the selected charts need. Subjects come back
// with the reproductive histories already merged in.
func load(ctx context.Context, opts Options) (*inputs, error) {
	s := opts.Settings
	in := &inputs{}

	if opts.needsSubjects() {
		subjects, err := loadFile(ctx, opts.Logger, s.InputPath(s.Inputs.Profile), study.LoadSubjects)
		if err != nil {
			return nil, err
		}

		var female, male []study.Event
		if opts.Wants(ChartStatus) {
			if female, err = loadEvents(ctx, opts.Logger, s.InputPath(s.Inputs.FemaleEvents), study.ColSpayDate); err != nil {
				return nil, err
			}
			if male, err = loadEvents(ctx, opts.Logger, s.InputPath(s.Inputs.MaleEvents), study.ColNeuterDate); err != nil {
				return nil, err
			}
		}

		in.subjects, in.merge = aggregate.MergeEvents(subjects, female, male)
		if dropped := in.merge.Unmatched + in.merge.WrongSex; dropped > 0 {
			opts.Logger.Warn("dropped reproductive events",
				"unmatched", in.merge.Unmatched,
				"wrong_sex", in.merge.WrongSex)
		}
	}

	if opts.Wants(ChartBehavior) {
		obs, err := loadFile(ctx, opts.Logger, s.InputPath(s.Inputs.Behavior), study.LoadObservations)
		if err != nil {
			return nil, err
		}
		in.observations = obs
	}
	return in, nil
}

// loadEvents reads an optional reproductive history. An empty path or a
// missing file yields no events; any other failure is fatal.
func loadEvents(ctx context.Context, logger *log.Logger, path, dateCol string) ([]study.Event, error) {
	if path == "" {
		return nil, nil
	}
	events, err := loadFile(ctx, logger, path, func(p string) ([]study.Event, error) {
		return study.LoadEvents(p, dateCol)
	})
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		logger.Warn("reproductive history not found, using profile dates", "file", path)
		return nil, nil
	}
	return events, err
}

// loadFile runs one loader with cancellation, hooks and logging.
func loadFile[T any](ctx context.Context, logger *log.Logger, path string, fn func(string) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()
	recs, err := fn(path)
	hooks.OnLoadComplete(ctx, path, len(recs), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded file", "file", path, "rows", len(recs), "duration", time.Since(start))
	return recs, nil
}
