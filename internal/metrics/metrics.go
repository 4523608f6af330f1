package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the order-service instrumentation. A nil *Metrics
// is valid and records nothing, so wiring stays optional in tests.
type Metrics struct {
	ordersCreated      prometheus.Counter
	orderFailures      *prometheus.CounterVec
	degradedLookups    *prometheus.CounterVec
	breakerState       *prometheus.GaugeVec
	breakerTransitions *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Metrics{
		ordersCreated: registerCounter(reg, prometheus.CounterOpts{
			Name: "microshop_orders_created_total",
			Help: "Total number of orders successfully created",
		}),
		orderFailures: registerCounterVec(reg, prometheus.CounterOpts{
			Name: "microshop_order_failures_total",
			Help: "Total number of failed order creations by reason",
		}, []string{"reason"}),
		degradedLookups: registerCounterVec(reg, prometheus.CounterOpts{
			Name: "microshop_degraded_lookups_total",
			Help: "Total number of enrichment lookups degraded to the Unknown sentinel",
		}, []string{"field"}),
		breakerState: registerGaugeVec(reg, prometheus.GaugeOpts{
			Name: "microshop_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"breaker"}),
		breakerTransitions: registerCounterVec(reg, prometheus.CounterOpts{
			Name: "microshop_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		}, []string{"breaker", "to"}),
	}
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) OrderFailed(reason string) {
	if m == nil {
		return
	}
	m.orderFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) LookupDegraded(field string) {
	if m == nil {
		return
	}
	m.degradedLookups.WithLabelValues(field).Inc()
}

func (m *Metrics) BreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) BreakerTransition(name, to string) {
	if m == nil {
		return
	}
	m.breakerTransitions.WithLabelValues(name, to).Inc()
}

func registerCounter(reg prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if existing, ok := alreadyRegistered(reg.Register(c)); ok {
		return existing.(prometheus.Counter)
	}
	return c
}

func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if existing, ok := alreadyRegistered(reg.Register(c)); ok {
		return existing.(*prometheus.CounterVec)
	}
	return c
}

func registerGaugeVec(reg prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(opts, labels)
	if existing, ok := alreadyRegistered(reg.Register(g)); ok {
		return existing.(*prometheus.GaugeVec)
	}
	return g
}

func alreadyRegistered(err error) (prometheus.Collector, bool) {
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector, true
	}
	return nil, false
}
