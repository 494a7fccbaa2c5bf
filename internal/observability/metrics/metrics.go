package metrics

import "github.com/prometheus/client_golang/prometheus"

// ContactMetrics exposes counters/histograms for the contact form flow.
type ContactMetrics struct {
	submissionsTotal *prometheus.CounterVec
	dispatchTotal    *prometheus.CounterVec
	dispatchLatency  *prometheus.HistogramVec
}

func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact submissions by response outcome",
		}, []string{"outcome"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "contact",
			Name:      "dispatch_total",
			Help:      "Notification email send attempts by provider and status",
		}, []string{"provider", "status"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "contact",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of notification email sends",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.dispatchTotal, m.dispatchLatency)
	return m
}

// ObserveSubmission counts one handled request; outcome is one of
// accepted, invalid, malformed or failed.
func (m *ContactMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *ContactMetrics) ObserveDispatch(provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(provider, status).Inc()
	m.dispatchLatency.WithLabelValues(provider).Observe(seconds)
}
