package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts session lifecycle events. A nil *Metrics records nothing.
type Metrics struct {
	teardowns      *prometheus.CounterVec
	absorbed       prometheus.Counter
	unauthorized   prometheus.Counter
	logoutFailures prometheus.Counter
}

// NewMetrics creates the session counters and registers them with reg, if
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		teardowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "websession",
			Name:      "teardowns_total",
			Help:      "Completed session teardowns by trigger.",
		}, []string{"trigger"}),
		absorbed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "websession",
			Name:      "teardown_signals_absorbed_total",
			Help:      "Teardown triggers ignored because the episode was already handled.",
		}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "websession",
			Name:      "unauthorized_responses_total",
			Help:      "API responses rejected with 401.",
		}),
		logoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "websession",
			Name:      "logout_notification_failures_total",
			Help:      "Best-effort logout notifications that failed.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.teardowns, m.absorbed, m.unauthorized, m.logoutFailures)
	}
	return m
}

func (m *Metrics) teardown(trigger Trigger) {
	if m == nil {
		return
	}
	m.teardowns.WithLabelValues(string(trigger)).Inc()
}

func (m *Metrics) absorb() {
	if m == nil {
		return
	}
	m.absorbed.Inc()
}

func (m *Metrics) rejected() {
	if m == nil {
		return
	}
	m.unauthorized.Inc()
}

func (m *Metrics) logoutFailed() {
	if m == nil {
		return
	}
	m.logoutFailures.Inc()
}
