package metrics

import "github.com/prometheus/client_golang/prometheus"

// SlotMetrics exposes counters/histograms for availability resolution.
type SlotMetrics struct {
	resolutionsTotal *prometheus.CounterVec
	fallbackTotal    *prometheus.CounterVec
	resolveLatency   *prometheus.HistogramVec
	bookingConflicts prometheus.Counter
}

func NewSlotMetrics(reg prometheus.Registerer) *SlotMetrics {
	m := &SlotMetrics{
		resolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medislot",
			Subsystem: "availability",
			Name:      "resolutions_total",
			Help:      "Total slot resolutions by mode and outcome",
		}, []string{"mode", "outcome"}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medislot",
			Subsystem: "availability",
			Name:      "default_hours_total",
			Help:      "Resolutions answered with default business hours",
		}, []string{"mode"}),
		resolveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medislot",
			Subsystem: "availability",
			Name:      "resolve_latency_seconds",
			Help:      "Latency of slot resolution including both data fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medislot",
			Subsystem: "appointments",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected because the time was already held",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.resolutionsTotal, m.fallbackTotal, m.resolveLatency, m.bookingConflicts)
	return m
}

func (m *SlotMetrics) ObserveResolution(mode, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.resolutionsTotal.WithLabelValues(mode, outcome).Inc()
	m.resolveLatency.WithLabelValues(mode).Observe(seconds)
}

func (m *SlotMetrics) ObserveFallback(mode string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(mode).Inc()
}

func (m *SlotMetrics) ObserveBookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}
