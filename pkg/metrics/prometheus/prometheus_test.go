package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/marmos91/dittonas/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// The registry is process-wide, so every collector is created exactly once here.
func TestCollectors(t *testing.T) {
	metrics.InitRegistry()

	api, ok := metrics.NewAPIMetrics().(*apiMetrics)
	if !ok {
		t.Fatal("expected prometheus API metrics after InitRegistry")
	}
	tree, ok := metrics.NewTreeMetrics().(*treeMetrics)
	if !ok {
		t.Fatal("expected prometheus tree metrics after InitRegistry")
	}

	t.Run("api requests", func(t *testing.T) {
		api.RecordRequestStart("GET")
		api.RecordRequest("GET", "/api/v1/storage/volumes", 200, 3*time.Millisecond)
		api.RecordRequest("GET", "/api/v1/storage/volumes", 200, 4*time.Millisecond)
		api.RecordRequest("GET", "/api/v1/storage/volumes", 404, time.Millisecond)

		if got := testutil.ToFloat64(api.requests.WithLabelValues("GET", "/api/v1/storage/volumes", "200")); got != 2 {
			t.Errorf("expected 2 successful requests, got %v", got)
		}
		if got := testutil.ToFloat64(api.inFlight.WithLabelValues("GET")); got != 1 {
			t.Errorf("expected 1 in-flight request, got %v", got)
		}
		api.RecordRequestEnd("GET")
		if got := testutil.ToFloat64(api.inFlight.WithLabelValues("GET")); got != 0 {
			t.Errorf("expected 0 in-flight requests, got %v", got)
		}
	})

	t.Run("tree projections", func(t *testing.T) {
		tree.RecordProjection("tank", 12, time.Microsecond, nil)
		tree.RecordProjection("tank", 0, time.Microsecond, errors.New("malformed"))
		tree.RecordStrideOverflow("tank")

		if got := testutil.ToFloat64(tree.projections.WithLabelValues("tank", "success")); got != 1 {
			t.Errorf("expected 1 successful projection, got %v", got)
		}
		if got := testutil.ToFloat64(tree.projections.WithLabelValues("tank", "error")); got != 1 {
			t.Errorf("expected 1 failed projection, got %v", got)
		}
		if got := testutil.ToFloat64(tree.overflows.WithLabelValues("tank")); got != 1 {
			t.Errorf("expected 1 overflow, got %v", got)
		}
	})
}
