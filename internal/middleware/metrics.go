package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "yummigo_redis_errors_total",
		Help: "Total number of Redis command errors",
	},
	[]string{"command"},
)

// SessionLookups counts session-store lookups by outcome (hit, miss, error).
var SessionLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "yummigo_session_lookups_total",
		Help: "Total number of session store lookups",
	},
	[]string{"outcome"},
)

// InitMetrics creates the Prometheus HTTP metrics middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the fiberprometheus middleware into a fiber.Handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
