// Package pkg provides the core libraries for the dogviz dashboard charts.
//
// # Overview
//
// Dogviz turns the de-identified study exports of a longitudinal dog cohort
// into the static PNG charts of the public dashboard. The pkg directory is
// organized into four areas:
//
//  1. Input - [table] reads delimited exports and [study] decodes them into
//     typed records
//  2. Aggregation - [aggregate] computes age counts, status shares and
//     behavior proportions
//  3. Drawing - [layout], [chart] and [fonts] produce the images
//  4. Orchestration - [pipeline] runs load → aggregate → render for the
//     charts named in a [config] settings file
//
// # Architecture
//
// The data flow of one run:
//
//	dog_profile.csv, *_reproductive_history.csv, behavior_summary.csv
//	         ↓
//	    [table] + [study] (load and type the records)
//	         ↓
//	    [aggregate] (merge events, count, share, reverse topics)
//	         ↓
//	    [chart] (gonum/plot figures, PNG encoding)
//	         ↓
//	    age_count.png, sex_status.png, behavior_*.png
//
// # Quick Start
//
//	settings, _ := config.LoadOrDefault("settings.toml")
//	result, err := pipeline.NewRunner(logger).Execute(ctx, pipeline.Options{
//	    Settings: settings,
//	})
//	if err != nil {
//	    return err
//	}
//	paths, err := pipeline.WriteArtifacts(ctx, settings.OutputDir, result.Artifacts)
//
// # Supporting Packages
//
// [a11y] checks chart descriptions for titles, axis labels, legends and
// WCAG text contrast.
//
// [imgdiff] compares rendered charts against a baseline directory and writes
// diff images for regressions.
//
// [errors] defines the coded errors returned across packages, and
// [observability] holds the pipeline and output hook registry.
//
// [buildinfo] carries the version stamped in at build time.
//
// # Testing
//
//	go test ./...                  # All tests
//	go test ./pkg/aggregate/...    # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [a11y]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/a11y
// [aggregate]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/aggregate
// [buildinfo]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/buildinfo
// [chart]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/chart
// [config]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/config
// [errors]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/errors
// [fonts]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/fonts
// [imgdiff]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/imgdiff
// [layout]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/layout
// [observability]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/pipeline
// [study]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/study
// [table]: https://pkg.go.dev/github.com/datacommons/dogviz/pkg/table
package pkg
