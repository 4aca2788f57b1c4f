package wallet

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector records wallet operation metrics.
type MetricsCollector interface {
	RecordOperation(op string, amountPence int64)
	RecordError(op, reason string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperation(string, int64) {}
func (NoopMetricsCollector) RecordError(string, string)    {}

// PrometheusCollector implements MetricsCollector on prometheus.
type PrometheusCollector struct {
	operations *prometheus.CounterVec
	pence      *prometheus.CounterVec
	errors     *prometheus.CounterVec
}

// NewPrometheusCollector registers the wallet metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choreblimey",
			Subsystem: "wallet",
			Name:      "operations_total",
			Help:      "Wallet credits and debits.",
		}, []string{"op"}),
		pence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choreblimey",
			Subsystem: "wallet",
			Name:      "operation_pence_total",
			Help:      "Total pence moved per operation type.",
		}, []string{"op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choreblimey",
			Subsystem: "wallet",
			Name:      "operation_errors_total",
			Help:      "Wallet operation failures by reason.",
		}, []string{"op", "reason"}),
	}
	reg.MustRegister(c.operations, c.pence, c.errors)
	return c
}

func (c *PrometheusCollector) RecordOperation(op string, amountPence int64) {
	c.operations.WithLabelValues(op).Inc()
	c.pence.WithLabelValues(op).Add(float64(amountPence))
}

func (c *PrometheusCollector) RecordError(op, reason string) {
	c.errors.WithLabelValues(op, reason).Inc()
}
