// Package telemetry provides observability for the smoke harness.
//
// # Metrics
//
// All metrics are registered against the default Prometheus registry. The
// harness is a run-to-completion CLI, so nothing is scraped; instead the
// counters feed the end-of-run summary printed by Summary(). Registering them
// as real Prometheus collectors keeps the door open for pushing to a gateway
// from CI without touching the instrumentation sites.
//
// # Label Cardinality
//
// Every metric is labelled by operation, whose values are the fixed step
// names of the smoke sequence (create_table, create_order, list_orders,
// get_order, update_order, delete_order). Cardinality is bounded by
// construction and never derived from response data or order IDs.
package telemetry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APICallsTotal counts every HTTP call the harness issues, by operation.
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smoke_api_calls_total",
			Help: "Total number of API calls issued by the smoke harness, by operation.",
		},
		[]string{"operation"},
	)

	// APICallFailuresTotal counts calls that failed at the transport or
	// parse boundary, by operation. Non-2xx statuses are not failures; the
	// harness treats every delivered response as printable output.
	APICallFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smoke_api_call_failures_total",
			Help: "Total number of smoke calls that failed in transport or response parsing, by operation.",
		},
		[]string{"operation"},
	)

	// APICallDuration observes the wall-clock duration of each call.
	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smoke_api_call_duration_seconds",
			Help:    "Histogram of smoke call round-trip latencies, by operation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

// Summary renders the per-operation call and failure counts accumulated in
// the default registry as human-readable lines, sorted by operation name.
// Operations that never ran are absent.
func Summary() string {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Sprintf("call summary unavailable: %v\n", err)
	}

	calls := map[string]float64{}
	failures := map[string]float64{}
	for _, mf := range mfs {
		var dst map[string]float64
		switch mf.GetName() {
		case "smoke_api_calls_total":
			dst = calls
		case "smoke_api_call_failures_total":
			dst = failures
		default:
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "operation" {
					dst[lp.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}

	ops := make([]string, 0, len(calls))
	for op := range calls {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	var b strings.Builder
	b.WriteString("CALL SUMMARY\n")
	for _, op := range ops {
		fmt.Fprintf(&b, "  %-13s calls=%.0f failures=%.0f\n", op, calls[op], failures[op])
	}
	return b.String()
}
