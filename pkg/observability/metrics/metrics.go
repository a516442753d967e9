// Package metrics implements the observability hooks with Prometheus
// collectors.
//
// The CLI is a batch job, so nothing is served over HTTP. Instead the
// collected values are written once at the end of a run in the text
// exposition format, ready for the node exporter's textfile collector:
//
//	rec := metrics.New()
//	observability.SetPipelineHooks(rec)
//	observability.SetOutputHooks(rec)
//	// ... run the pipeline and write the charts ...
//	err := rec.WriteTextfile("/var/lib/node_exporter/dogviz.prom")
package metrics

import (
	"context"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/observability"
)

const namespace = "dogviz"

// Result label values.
const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	_ observability.PipelineHooks = (*Recorder)(nil)
	_ observability.OutputHooks   = (*Recorder)(nil)
)

// Recorder collects pipeline timings and output sizes into its own
// registry.
type Recorder struct {
	registry *prometheus.Registry

	loadSeconds      *prometheus.HistogramVec
	loadRows         *prometheus.GaugeVec
	aggregateSeconds *prometheus.HistogramVec
	renderSeconds    *prometheus.HistogramVec
	imageBytes       *prometheus.GaugeVec
	filesWritten     *prometheus.CounterVec
	lastRun          prometheus.Gauge
}

// New creates a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		loadSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent reading one input file.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"file", "result"}),
		loadRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_rows",
			Help:      "Records read from the last load of an input file.",
		}, []string{"file"}),
		aggregateSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_duration_seconds",
			Help:      "Time spent aggregating the data of one chart.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"chart", "result"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent drawing and encoding one image.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"image", "result"}),
		imageBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "image_bytes",
			Help:      "Encoded PNG size of the last render of an image.",
		}, []string{"image"}),
		filesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Output files written, by result.",
		}, []string{"result"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the metrics file was written.",
		}),
	}
	r.registry.MustRegister(
		r.loadSeconds,
		r.loadRows,
		r.aggregateSeconds,
		r.renderSeconds,
		r.imageBytes,
		r.filesWritten,
		r.lastRun,
	)
	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile stamps the run time and writes every metric to path in the
// text exposition format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	r.lastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write metrics %s", path)
	}
	return nil
}

func (r *Recorder) OnLoadStart(context.Context, string) {}

func (r *Recorder) OnLoadComplete(_ context.Context, path string, rows int, d time.Duration, err error) {
	file := filepath.Base(path)
	r.loadSeconds.WithLabelValues(file, result(err)).Observe(d.Seconds())
	if err == nil {
		r.loadRows.WithLabelValues(file).Set(float64(rows))
	}
}

func (r *Recorder) OnAggregateStart(context.Context, string) {}

func (r *Recorder) OnAggregateComplete(_ context.Context, chart string, _ int, d time.Duration, err error) {
	r.aggregateSeconds.WithLabelValues(chart, result(err)).Observe(d.Seconds())
}

func (r *Recorder) OnRenderStart(context.Context, string) {}

func (r *Recorder) OnRenderComplete(_ context.Context, name string, size int, d time.Duration, err error) {
	r.renderSeconds.WithLabelValues(name, result(err)).Observe(d.Seconds())
	if err == nil {
		r.imageBytes.WithLabelValues(name).Set(float64(size))
	}
}

func (r *Recorder) OnWrite(context.Context, string, int) {
	r.filesWritten.WithLabelValues(resultOK).Inc()
}

func (r *Recorder) OnWriteError(context.Context, string, error) {
	r.filesWritten.WithLabelValues(resultError).Inc()
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
