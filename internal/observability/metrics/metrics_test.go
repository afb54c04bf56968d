package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestObserveSubmission(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSubmission("accepted")
	m.ObserveSubmission("accepted")
	m.ObserveSubmission("rejected")

	if got := counterValue(t, reg, "leadgate_leads_submissions_total", map[string]string{"status": "accepted"}); got != 2 {
		t.Fatalf("expected 2 accepted, got %v", got)
	}
	if got := counterValue(t, reg, "leadgate_leads_submissions_total", map[string]string{"status": "rejected"}); got != 1 {
		t.Fatalf("expected 1 rejected, got %v", got)
	}
}

func TestObserveCRMForward(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveCRMForward("ok", "json")
	m.ObserveCRMForward("error", "form")

	if got := counterValue(t, reg, "leadgate_leads_crm_forward_total", map[string]string{"status": "ok", "encoding": "json"}); got != 1 {
		t.Fatalf("expected 1 ok/json, got %v", got)
	}
	if got := counterValue(t, reg, "leadgate_leads_crm_forward_total", map[string]string{"status": "error", "encoding": "form"}); got != 1 {
		t.Fatalf("expected 1 error/form, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission("accepted")
	m.ObserveCRMForward("ok", "json")
	m.ObserveSheetAppend(0.1)
}
