package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the scheduling assistant.
type AssistantMetrics struct {
	chatTurnsTotal    *prometheus.CounterVec
	toolCallsTotal    *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	checkpointLatency *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		chatTurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendcitas",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total chat turns processed",
		}, []string{"status"}),
		toolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendcitas",
			Subsystem: "chat",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations requested by the model",
		}, []string{"tool"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agendcitas",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total booking attempts",
		}, []string{"outcome"}),
		checkpointLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agendcitas",
			Subsystem: "checkpoint",
			Name:      "operation_latency_seconds",
			Help:      "Latency of checkpoint store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTurnsTotal, m.toolCallsTotal, m.bookingsTotal, m.checkpointLatency)
	return m
}

func (m *AssistantMetrics) ObserveChatTurn(status string) {
	if m == nil {
		return
	}
	m.chatTurnsTotal.WithLabelValues(status).Inc()
}

func (m *AssistantMetrics) ObserveToolCall(tool string) {
	if m == nil {
		return
	}
	m.toolCallsTotal.WithLabelValues(tool).Inc()
}

func (m *AssistantMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *AssistantMetrics) ObserveCheckpointLatency(op string, seconds float64) {
	if m == nil {
		return
	}
	m.checkpointLatency.WithLabelValues(op).Observe(seconds)
}
