// Package metrics records validation metrics in a Prometheus registry.
package metrics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/validator"
)

// File results.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

// Recorder owns a private registry, so separate recorders never share counters.
type Recorder struct {
	registry     *prometheus.Registry
	diagnostics  *prometheus.CounterVec
	files        *prometheus.CounterVec
	lines        prometheus.Counter
	records      prometheus.Counter
	syntaxErrors prometheus.Counter
	duration     prometheus.Histogram
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		diagnostics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vcfcheck_diagnostics_total",
				Help: "Number of diagnostics by category and severity",
			},
			[]string{"category", "severity"},
		),
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vcfcheck_files_total",
				Help: "Number of processed files by result",
			},
			[]string{"result"},
		),
		lines: factory.NewCounter(prometheus.CounterOpts{
			Name: "vcfcheck_lines_total",
			Help: "Number of scanned lines",
		}),
		records: factory.NewCounter(prometheus.CounterOpts{
			Name: "vcfcheck_records_total",
			Help: "Number of syntactically valid records",
		}),
		syntaxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "vcfcheck_syntax_errors_total",
			Help: "Number of stored errors caused by grammar violations",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vcfcheck_validation_seconds",
			Help:    "Duration of file validation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry returns the registry metrics are registered in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSession records metrics of a finished session.
func (r *Recorder) ObserveSession(s *validator.Session, duration time.Duration) {
	result := ResultValid
	if !s.IsValid() {
		result = ResultInvalid
	}
	r.files.WithLabelValues(result).Inc()
	r.lines.Add(float64(s.Line() - 1))
	r.records.Add(float64(s.Records()))
	r.duration.Observe(duration.Seconds())

	for _, e := range s.Errors() {
		r.observeDiagnostic(e)
	}
	for _, e := range s.Warnings() {
		r.observeDiagnostic(e)
	}
	if s.Dropped() > 0 {
		r.diagnostics.WithLabelValues("dropped", vcfcheck.SeverityError.String()).Add(float64(s.Dropped()))
	}
}

func (r *Recorder) observeDiagnostic(e *vcfcheck.Error) {
	r.diagnostics.WithLabelValues(string(e.Category), e.Severity.String()).Inc()
	if !e.IsWarning() && e.Category.IsSyntax() {
		r.syntaxErrors.Inc()
	}
}

// ObserveFailure records a file that could not be read to the end.
func (r *Recorder) ObserveFailure() {
	r.files.WithLabelValues(ResultFailed).Inc()
}

// Write encodes gathered metrics in Prometheus text format.
func (r *Recorder) Write(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes metrics to a textfile collector file, "-" means stdout.
func (r *Recorder) WriteFile(path string) error {
	if path == "-" {
		return r.Write(os.Stdout)
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
