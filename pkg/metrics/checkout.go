package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout and webhook pipeline outcomes.
type CheckoutMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkoutResult   *prometheus.CounterVec
	webhookResult    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the pipeline metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_total",
		Help: "Payment webhook deliveries by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, checkouts, webhooks)
	return &CheckoutMetrics{
		checkoutDuration: duration,
		checkoutResult:   checkouts,
		webhookResult:    webhooks,
	}
}

// ObserveCheckout records one checkout attempt with its duration.
func (c *CheckoutMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	label := normalizeLabel(outcome)
	if c.checkoutDuration != nil {
		c.checkoutDuration.WithLabelValues(label).Observe(duration.Seconds())
	}
	if c.checkoutResult != nil {
		c.checkoutResult.WithLabelValues(label).Inc()
	}
}

// IncWebhook counts one webhook delivery outcome.
func (c *CheckoutMetrics) IncWebhook(outcome string) {
	if c == nil || c.webhookResult == nil {
		return
	}
	c.webhookResult.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	label := strings.TrimSpace(strings.ToLower(value))
	if label == "" {
		return "unknown"
	}
	return strings.ReplaceAll(label, " ", "_")
}
