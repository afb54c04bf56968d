package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead pipeline.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	crmForwardTotal  *prometheus.CounterVec
	sheetAppend      prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgate",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead form submissions by outcome",
		}, []string{"status"}),
		crmForwardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgate",
			Subsystem: "leads",
			Name:      "crm_forward_total",
			Help:      "Total Bitrix lead pushes by outcome and encoding",
		}, []string{"status", "encoding"}),
		sheetAppend: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadgate",
			Subsystem: "leads",
			Name:      "sheet_append_seconds",
			Help:      "Latency of the system-of-record append call",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.crmForwardTotal, m.sheetAppend)
	return m
}

// ObserveSubmission records one pipeline outcome: accepted, rejected, or
// record_failed.
func (m *LeadMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveCRMForward(status, encoding string) {
	if m == nil {
		return
	}
	m.crmForwardTotal.WithLabelValues(status, encoding).Inc()
}

func (m *LeadMetrics) ObserveSheetAppend(seconds float64) {
	if m == nil {
		return
	}
	m.sheetAppend.Observe(seconds)
}
