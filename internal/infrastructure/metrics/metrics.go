package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/draftledger/internal/domain"
)

// Metrics holds the extraction pipeline metrics and implements usecase.Observer.
type Metrics struct {
	// Inference metrics
	InferenceCalls    *prometheus.CounterVec
	InferenceDuration *prometheus.HistogramVec
	InferenceInFlight prometheus.Gauge

	// Parse and normalization metrics
	ParseResults    *prometheus.CounterVec
	DiscardedDrafts prometheus.Counter
	CollapsedDrafts prometheus.Counter

	// Import metrics
	Imports *prometheus.CounterVec
	Commits *prometheus.CounterVec
}

// New creates the pipeline metrics and registers them with reg.
// A nil reg uses the default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		InferenceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftledger_inference_calls_total",
				Help: "Total number of inference calls by unit kind and status",
			},
			[]string{"kind", "status"},
		),
		InferenceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "draftledger_inference_duration_seconds",
				Help:    "Duration of inference calls",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"kind"},
		),
		InferenceInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "draftledger_inference_in_flight",
			Help: "Number of inference calls currently running",
		}),

		ParseResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftledger_parse_results_total",
				Help: "Inference responses by the parse strategy that decoded them",
			},
			[]string{"strategy"},
		),
		DiscardedDrafts: factory.NewCounter(prometheus.CounterOpts{
			Name: "draftledger_drafts_discarded_total",
			Help: "Decoded records dropped by normalization",
		}),
		CollapsedDrafts: factory.NewCounter(prometheus.CounterOpts{
			Name: "draftledger_drafts_collapsed_total",
			Help: "Drafts removed as duplicates",
		}),

		Imports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftledger_imports_total",
				Help: "Extraction runs by outcome",
			},
			[]string{"outcome"},
		),
		Commits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftledger_commits_total",
				Help: "Committed drafts by status",
			},
			[]string{"status"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// InferenceStarted marks one inference call as in flight.
func (m *Metrics) InferenceStarted(kind string) {
	m.InferenceInFlight.Inc()
}

// InferenceFinished records the result of one inference call.
func (m *Metrics) InferenceFinished(kind string, d time.Duration, err error) {
	m.InferenceInFlight.Dec()
	m.InferenceCalls.WithLabelValues(kind, status(err)).Inc()
	m.InferenceDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ChunkParsed counts the strategy that decoded a response.
func (m *Metrics) ChunkParsed(strategy string) {
	m.ParseResults.WithLabelValues(strategy).Inc()
}

// DraftsDiscarded counts records that did not survive normalization.
func (m *Metrics) DraftsDiscarded(n int) {
	m.DiscardedDrafts.Add(float64(n))
}

// DraftsCollapsed counts duplicate drafts removed by dedup.
func (m *Metrics) DraftsCollapsed(n int) {
	m.CollapsedDrafts.Add(float64(n))
}

// ImportExtracted counts an extraction run by outcome.
func (m *Metrics) ImportExtracted(outcome domain.ImportOutcome) {
	m.Imports.WithLabelValues(string(outcome)).Inc()
}

// DraftCommitted counts one draft commit attempt.
func (m *Metrics) DraftCommitted(err error) {
	m.Commits.WithLabelValues(status(err)).Inc()
}
