package authsvc

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values of AuthMetrics.
const (
	outcomeSuccess         = "success"
	outcomeInvalidRequest  = "invalid_request"
	outcomeDuplicate       = "duplicate"
	outcomeNotFound        = "not_found"
	outcomeInvalidPassword = "invalid_password"
	outcomeError           = "error"
)

// AuthMetrics counts registration and login attempts by outcome.
type AuthMetrics struct {
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
}

// NewAuthMetrics creates the counters and registers them with reg unless reg is nil.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_registrations_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_logins_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Registrations, m.Logins)
	}

	return m
}
