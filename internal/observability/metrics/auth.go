// Package metrics exposes counters for the auth gateway. Handlers
// depend on the AuthMetrics interface so tests and tools can run
// without a Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result constants for metric labeling.
const (
	ResultPass     = "pass"
	ResultRedirect = "redirect"
	ResultDenied   = "denied"
)

// AuthMetrics records gateway and login outcomes.
type AuthMetrics interface {
	GateDecision(scope, result, reason string)
	LoginAttempt(scope, result string)
}

// Noop discards all observations.
type Noop struct{}

func (Noop) GateDecision(string, string, string) {}
func (Noop) LoginAttempt(string, string)         {}

// PromAuthMetrics implements AuthMetrics on Prometheus counters.
type PromAuthMetrics struct {
	gateDecisions *prometheus.CounterVec
	loginAttempts *prometheus.CounterVec
}

// NewPromAuthMetrics builds and registers the auth counter vectors.
func NewPromAuthMetrics(reg prometheus.Registerer) *PromAuthMetrics {
	m := &PromAuthMetrics{
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "auth",
			Name:      "gate_decisions_total",
			Help:      "Gateway filter decisions by area, result, and rejection reason.",
		}, []string{"scope", "result", "reason"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by area and result.",
		}, []string{"scope", "result"}),
	}
	reg.MustRegister(m.gateDecisions, m.loginAttempts)
	return m
}

func (m *PromAuthMetrics) GateDecision(scope, result, reason string) {
	m.gateDecisions.WithLabelValues(scope, result, reason).Inc()
}

func (m *PromAuthMetrics) LoginAttempt(scope, result string) {
	m.loginAttempts.WithLabelValues(scope, result).Inc()
}
