package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics records checkout outcomes and settled order values.
type CheckoutMetrics struct {
	attempts   *prometheus.CounterVec
	failures   *prometheus.CounterVec
	orderValue prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Failed checkouts by reason.",
	}, []string{"reason"})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_value",
		Help:    "Settled order value in currency units.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
	reg.MustRegister(attempts, failures, orderValue)
	return &CheckoutMetrics{
		attempts:   attempts,
		failures:   failures,
		orderValue: orderValue,
	}
}

// IncSuccess records a settled checkout and its order value.
func (c *CheckoutMetrics) IncSuccess(cost decimal.Decimal) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues("success").Inc()
	value, _ := cost.Float64()
	c.orderValue.Observe(value)
}

// IncFailure records a failed checkout under the given reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues("failure").Inc()
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(reason string) string {
	if reason == "" {
		return "unknown"
	}
	return reason
}
