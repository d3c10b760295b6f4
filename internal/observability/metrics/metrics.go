package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes.
const (
	OutcomeStored        = "stored"
	OutcomeRejected      = "rejected"
	OutcomeStorageError  = "storage_error"
	OutcomeInternalError = "internal_error"
)

// LeadMetrics exposes counters/histograms for the lead submission flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	relayTotal       *prometheus.CounterVec
	storeLatency     prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadcapture",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead submissions by outcome",
		}, []string{"outcome"}),
		relayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadcapture",
			Subsystem: "leads",
			Name:      "relay_total",
			Help:      "Best-effort relay attempts by relay and status",
		}, []string{"relay", "status"}),
		storeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadcapture",
			Subsystem: "leads",
			Name:      "store_latency_seconds",
			Help:      "Latency of the durable lead insert",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.relayTotal, m.storeLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveRelay(relay, status string) {
	if m == nil {
		return
	}
	m.relayTotal.WithLabelValues(relay, status).Inc()
}

func (m *LeadMetrics) ObserveStoreLatency(seconds float64) {
	if m == nil {
		return
	}
	m.storeLatency.Observe(seconds)
}
