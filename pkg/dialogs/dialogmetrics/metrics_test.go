package dialogmetrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m.GetLabel(), labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) != len(want) {
		return false
	}
	for _, pair := range got {
		if want[pair.GetName()] != pair.GetValue() {
			return false
		}
	}
	return true
}

func TestObserveTurnIncrementsCountersByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveTurn("name_getter_dialog", true, 10*time.Millisecond)
	r.ObserveTurn("name_getter_dialog", false, 5*time.Millisecond)

	if got := counterValue(t, reg, "dialogs_turns_total", map[string]string{"dialog": "name_getter_dialog", "outcome": "done"}); got != 1 {
		t.Errorf("done counter = %v, want 1", got)
	}
	if got := counterValue(t, reg, "dialogs_turns_total", map[string]string{"dialog": "name_getter_dialog", "outcome": "suspended"}); got != 1 {
		t.Errorf("suspended counter = %v, want 1", got)
	}
}

func TestObserveFallbackIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveFallback("name_getter_dialog")
	r.ObserveFallback("name_getter_dialog")

	if got := counterValue(t, reg, "dialogs_fallbacks_total", map[string]string{"dialog": "name_getter_dialog"}); got != 2 {
		t.Errorf("fallbacks counter = %v, want 2", got)
	}
}

func TestNewRegistersUnderDialogsNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "dialogs_") {
			t.Errorf("metric %s not under the dialogs_ namespace", mf.GetName())
		}
	}
}
