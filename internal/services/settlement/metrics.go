package settlement

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector records settlement outcomes.
type MetricsCollector interface {
	RecordSettlement(amountPence, giftPence int64, giftCount int, duration time.Duration)
	RecordFailure(reason string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSettlement(int64, int64, int, time.Duration) {}
func (NoopMetricsCollector) RecordFailure(string)                             {}

// PrometheusCollector implements MetricsCollector on prometheus.
type PrometheusCollector struct {
	settlements prometheus.Counter
	pence       *prometheus.CounterVec
	gifts       prometheus.Counter
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewPrometheusCollector registers the settlement metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "choreblimey",
			Subsystem: "settlement",
			Name:      "payouts_total",
			Help:      "Completed settlements.",
		}),
		pence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choreblimey",
			Subsystem: "settlement",
			Name:      "payout_pence_total",
			Help:      "Disbursed pence by funding source.",
		}, []string{"source"}),
		gifts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "choreblimey",
			Subsystem: "settlement",
			Name:      "gifts_settled_total",
			Help:      "Gifts folded into payouts.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choreblimey",
			Subsystem: "settlement",
			Name:      "failures_total",
			Help:      "Rejected or failed settlements by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "choreblimey",
			Subsystem: "settlement",
			Name:      "duration_seconds",
			Help:      "Settlement transaction duration.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.settlements, c.pence, c.gifts, c.failures, c.duration)
	return c
}

func (c *PrometheusCollector) RecordSettlement(amountPence, giftPence int64, giftCount int, duration time.Duration) {
	c.settlements.Inc()
	c.pence.WithLabelValues("chore").Add(float64(amountPence - giftPence))
	c.pence.WithLabelValues("gift").Add(float64(giftPence))
	c.gifts.Add(float64(giftCount))
	c.duration.Observe(duration.Seconds())
}

func (c *PrometheusCollector) RecordFailure(reason string) {
	c.failures.WithLabelValues(reason).Inc()
}
