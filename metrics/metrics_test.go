package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewEngine_registersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := NewEngine(reg)
	e.Ticks.Inc()
	e.Sends.Inc()
	e.Sends.Inc()

	if got := testutil.ToFloat64(e.Ticks); got != 1 {
		t.Fatalf("Ticks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(e.Sends); got != 2 {
		t.Fatalf("Sends = %v, want 2", got)
	}
}

func TestNewEngine_nilRegisterer(t *testing.T) {
	e := NewEngine(nil) // must not panic
	e.QueueDepth.Set(3)
	if got := testutil.ToFloat64(e.QueueDepth); got != 3 {
		t.Fatalf("QueueDepth = %v, want 3", got)
	}
}
