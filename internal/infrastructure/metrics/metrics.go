package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts tracks authentication outcomes by method (session,
	// api_key) and result (ok, invalid, expired, forbidden, error).
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventdesk_auth_attempts_total",
		Help: "Total number of authentication attempts by method and result",
	}, []string{"method", "result"})

	// HTTPRequests tracks served requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventdesk_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "status"})

	// SessionsCreated tracks successful interactive logins.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventdesk_sessions_created_total",
		Help: "Total number of sessions created via login",
	})

	// DBConnectionsActive tracks open database connections.
	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventdesk_db_connections_active",
		Help: "Number of active database connections",
	})
)
