package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)

	m.OrderCreated()
	m.OrderCreated()
	m.OrderFailed("breaker_open")
	m.LookupDegraded("userName")
	m.BreakerState("productService", 1)
	m.BreakerTransition("productService", "open")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderFailures.WithLabelValues("breaker_open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degradedLookups.WithLabelValues("userName")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerState.WithLabelValues("productService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerTransitions.WithLabelValues("productService", "open")))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.OrderFailed("other")
		m.LookupDegraded("productName")
		m.BreakerState("productService", 0)
		m.BreakerTransition("productService", "closed")
	})
}

func TestRepeatedRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewWithRegisterer(reg)
	second := NewWithRegisterer(reg)

	first.OrderCreated()
	second.OrderCreated()
	assert.Equal(t, 2.0, testutil.ToFloat64(second.ordersCreated), "both handles share one collector")
}
