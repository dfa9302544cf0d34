package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MarketplaceMetrics records checkout and shipping-transition outcomes.
type MarketplaceMetrics struct {
	checkoutDuration    *prometheus.HistogramVec
	checkoutSuccess     *prometheus.CounterVec
	checkoutFailure     *prometheus.CounterVec
	shippingTransitions *prometheus.CounterVec
}

// NewMarketplaceMetrics registers the metrics on the provided registerer. A
// nil registerer yields a no-op recorder, matching how worker binaries run
// without a metrics endpoint.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	if reg == nil {
		return &MarketplaceMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	checkoutSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_success_total",
		Help: "Successful checkouts by kind.",
	}, []string{"kind"})
	checkoutFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure_total",
		Help: "Failed checkouts by kind and error code.",
	}, []string{"kind", "code"})
	shippingTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_transitions_total",
		Help: "Applied shipping transitions by target status.",
	}, []string{"status"})
	reg.MustRegister(checkoutDuration, checkoutSuccess, checkoutFailure, shippingTransitions)
	return &MarketplaceMetrics{
		checkoutDuration:    checkoutDuration,
		checkoutSuccess:     checkoutSuccess,
		checkoutFailure:     checkoutFailure,
		shippingTransitions: shippingTransitions,
	}
}

// ObserveCheckout records the duration for the given checkout kind.
func (m *MarketplaceMetrics) ObserveCheckout(kind string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncCheckoutSuccess increments the success counter for the checkout kind.
func (m *MarketplaceMetrics) IncCheckoutSuccess(kind string) {
	if m == nil || m.checkoutSuccess == nil {
		return
	}
	m.checkoutSuccess.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncCheckoutFailure increments the failure counter for the checkout kind.
func (m *MarketplaceMetrics) IncCheckoutFailure(kind, code string) {
	if m == nil || m.checkoutFailure == nil {
		return
	}
	m.checkoutFailure.WithLabelValues(normalizeLabel(kind), normalizeLabel(code)).Inc()
}

// IncShippingTransition counts an applied transition into the given status.
func (m *MarketplaceMetrics) IncShippingTransition(status string) {
	if m == nil || m.shippingTransitions == nil {
		return
	}
	m.shippingTransitions.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
