package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

const namespace = "wardrobe"

// AnalysisMetrics records engine outcomes and outbound call health. It is
// embedded by the API and worker metrics so both processes expose the same series.
type AnalysisMetrics struct {
	service string

	analysesTotal      *prometheus.CounterVec
	matchSimilarity    *prometheus.HistogramVec
	varietyScore       *prometheus.HistogramVec
	extractionOutcomes *prometheus.CounterVec
	retriesTotal       *prometheus.CounterVec
	breakerState       *prometheus.GaugeVec
}

func newAnalysisMetrics(service string, registry *prometheus.Registry) *AnalysisMetrics {
	m := &AnalysisMetrics{
		service: service,
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "total",
				Help:      "Completed candidate analyses by recommended action and reason.",
			},
			[]string{"service", "action", "reason", "verdict"},
		),
		matchSimilarity: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "match_similarity_score",
				Help:      "Similarity score of reported duplicate matches.",
				Buckets:   []float64{70, 75, 80, 85, 90, 95, 100},
			},
			[]string{"service"},
		),
		varietyScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "variety_score",
				Help:      "Variety score per analysis.",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"service"},
		),
		extractionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "extraction",
				Name:      "outcomes_total",
				Help:      "Attribute extraction outcomes.",
			},
			[]string{"service", "outcome"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resilience",
				Name:      "retries_total",
				Help:      "Retried outbound calls by operation.",
			},
			[]string{"service", "operation"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "resilience",
				Name:      "breaker_state",
				Help:      "Circuit breaker state by operation (0 closed, 1 half-open, 2 open).",
			},
			[]string{"service", "operation"},
		),
	}

	registry.MustRegister(
		m.analysesTotal,
		m.matchSimilarity,
		m.varietyScore,
		m.extractionOutcomes,
		m.retriesTotal,
		m.breakerState,
	)
	return m
}

func (m *AnalysisMetrics) ObserveAnalysis(result domain.AnalysisResult) {
	rec := result.Recommendation
	m.analysesTotal.WithLabelValues(m.service, string(rec.Action), string(rec.Reason), string(result.DuplicateAnalysis.Verdict)).Inc()
	for _, match := range result.DuplicateAnalysis.Matches {
		m.matchSimilarity.WithLabelValues(m.service).Observe(float64(match.SimilarityScore))
	}
	m.varietyScore.WithLabelValues(m.service).Observe(float64(result.VarietyImpact.VarietyScore))
}

func (m *AnalysisMetrics) ObserveExtraction(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.extractionOutcomes.WithLabelValues(m.service, outcome).Inc()
}

func (m *AnalysisMetrics) ObserveRetry(operation string) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *AnalysisMetrics) ObserveBreakerState(operation, state string) {
	value := 0.0
	switch state {
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
