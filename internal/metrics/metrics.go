package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts by outcome
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thinksync_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"}) // success, invalid_credentials, locked, not_active

	// Lockouts counts accounts entering the locked state
	Lockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thinksync_account_lockouts_total",
		Help: "Accounts locked after repeated failed logins",
	})

	// Registrations counts successful registrations
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thinksync_registrations_total",
		Help: "Successful clinician registrations",
	})

	// SessionsCreated counts therapy session records created
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thinksync_therapy_sessions_created_total",
		Help: "Therapy session records created",
	})
)
