package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsphere_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// LikeToggles counts like toggles by resource and resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsphere_like_toggles_total",
		Help: "Total number of like toggles",
	}, []string{"resource", "state"})

	// PersistenceErrors counts storage failures surfaced to callers by kind.
	PersistenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsphere_persistence_errors_total",
		Help: "Total number of storage errors returned to clients",
	}, []string{"kind"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the HTTP metrics collector. Collectors register on the
// default registry, so every server in the process shares one instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request count and latency per route.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

// RecordLikeToggle counts one completed like toggle.
func RecordLikeToggle(resource string, liked bool) {
	state := "unliked"
	if liked {
		state = "liked"
	}
	LikeToggles.WithLabelValues(resource, state).Inc()
}
