package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)

	m.ObserveChatTurn("ok")
	m.ObserveChatTurn("ok")
	m.ObserveChatTurn("error")
	m.ObserveToolCall("book_appointment")
	m.ObserveBooking("confirmed")
	m.ObserveBooking("slot_unavailable")
	m.ObserveCheckpointLatency("put", 0.02)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.chatTurnsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.chatTurnsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.toolCallsTotal.WithLabelValues("book_appointment")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("slot_unavailable")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *AssistantMetrics
	m.ObserveChatTurn("ok")
	m.ObserveToolCall("slots_for")
	m.ObserveBooking("confirmed")
	m.ObserveCheckpointLatency("get", 0.01)
}
