package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "golfkart",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "golfkart",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "golfkart",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Course search metrics
	NearbyResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "golfkart",
		Subsystem: "courses",
		Name:      "nearby_results",
		Help:      "Number of courses returned by proximity searches",
		Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
	})

	NearbyCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "golfkart",
		Subsystem: "courses",
		Name:      "nearby_candidates",
		Help:      "Number of bounding-box candidates loaded per proximity search",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
	})

	// Photo quota metrics
	PhotoGateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "golfkart",
		Subsystem: "photos",
		Name:      "gate_decisions_total",
		Help:      "Photo requests by outcome (cached, allowed, denied, failed)",
	}, []string{"decision"})

	PhotoQuotaUsed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "golfkart",
		Subsystem: "photos",
		Name:      "quota_used",
		Help:      "Photo API calls counted in the current window",
	}, []string{"window"})

	PhotoQuotaLimit = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "golfkart",
		Subsystem: "photos",
		Name:      "quota_limit",
		Help:      "Photo API ceiling of the window",
	}, []string{"window"})

	// Weather metrics
	WeatherRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "golfkart",
		Subsystem: "weather",
		Name:      "refresh_total",
		Help:      "Per-course weather refreshes by outcome",
	}, []string{"outcome"})

	WeatherRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "golfkart",
		Subsystem: "weather",
		Name:      "refresh_run_duration_seconds",
		Help:      "Duration of a full weather refresh run",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	// Submission metrics
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "golfkart",
		Subsystem: "submissions",
		Name:      "received_total",
		Help:      "Contact and review submissions by delivery path",
	}, []string{"kind", "delivery"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "golfkart",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "golfkart",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "golfkart",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "golfkart",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "golfkart",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "golfkart",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path // route pattern keeps cardinality low
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat the pool gauges read.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics copies pool statistics into the pool gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}

// CacheLookup records a cache hit or miss for operation.
func CacheLookup(operation string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(operation).Inc()
		return
	}
	CacheMisses.WithLabelValues(operation).Inc()
}

// ObserveQuota publishes one window of the photo quota.
func ObserveQuota(window string, used, limit int) {
	PhotoQuotaUsed.WithLabelValues(window).Set(float64(used))
	PhotoQuotaLimit.WithLabelValues(window).Set(float64(limit))
}
