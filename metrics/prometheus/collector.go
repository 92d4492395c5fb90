// Package prometheus exports store metrics through Prometheus client_golang.
package prometheus

import (
	"time"

	"github.com/hupe1980/hashsync"
	"github.com/prometheus/client_golang/prometheus"
)

// Label values of the outcome label.
const (
	Found   = "found"
	Missing = "missing"
)

// Collector implements hashsync.MetricsCollector with Prometheus collectors.
type Collector struct {
	OpsTotal        *prometheus.CounterVec
	OpDuration      *prometheus.HistogramVec
	BackfilledTotal prometheus.Counter
	LookupRowsTotal *prometheus.CounterVec
}

var _ hashsync.MetricsCollector = (*Collector)(nil)

// New creates a Collector whose metric names start with namespace and
// registers it with reg. A nil reg skips registration.
func New(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Cumulative number of store operations, by operation and outcome.",
		}, []string{"op", "outcome"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of store operations, by operation.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		BackfilledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfilled_rows_total",
			Help:      "Cumulative number of rows indexed by index registration backfills.",
		}),
		LookupRowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_rows_total",
			Help:      "Cumulative number of ids visited by index lookups, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(c.OpsTotal, c.OpDuration, c.BackfilledTotal, c.LookupRowsTotal)
	}
	return c
}

func outcome(ok bool) string {
	if ok {
		return Found
	}
	return Missing
}

func (c *Collector) record(op string, d time.Duration, ok bool) {
	c.OpsTotal.WithLabelValues(op, outcome(ok)).Inc()
	c.OpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordInsert implements hashsync.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration) {
	c.record("insert", d, true)
}

// RecordDelete implements hashsync.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, found bool) {
	c.record("delete", d, found)
}

// RecordReplace implements hashsync.MetricsCollector.
func (c *Collector) RecordReplace(d time.Duration, existed bool) {
	c.record("replace", d, existed)
}

// RecordRegister implements hashsync.MetricsCollector.
func (c *Collector) RecordRegister(d time.Duration, backfilled int) {
	c.record("register", d, true)
	c.BackfilledTotal.Add(float64(backfilled))
}

// RecordLookup implements hashsync.MetricsCollector.
func (c *Collector) RecordLookup(d time.Duration, hits, misses int) {
	c.record("lookup", d, hits > 0)
	c.LookupRowsTotal.WithLabelValues(Found).Add(float64(hits))
	c.LookupRowsTotal.WithLabelValues(Missing).Add(float64(misses))
}
