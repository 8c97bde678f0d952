package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediplace/lab-api/internal/handler"
	"github.com/mediplace/lab-api/internal/middleware"
	"github.com/mediplace/lab-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	RateLimit  float64
	RateBurst  int
	Timeout    time.Duration
	CORSConfig middleware.CORSConfig
}

type Router struct {
	engine    *gin.Engine
	laborderH Handler
	h         *handler.Handler
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
}

func NewRouter(
	laborderH Handler,
	h *handler.Handler,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:    engine,
		laborderH: laborderH,
		h:         h,
		metrics:   m,
		registry:  registry,
	}

	if config.Timeout <= 0 {
		config.Timeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
		middleware.Cache(middleware.DefaultCacheConfig()),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.setupHealthCheck()

	api := r.engine.Group("/api/v1")
	r.laborderH.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupHealthCheck() {
	health := r.engine.Group("/health")
	{
		health.GET("/live", r.h.HealthCheck)
		health.GET("/ready", r.h.ReadyCheck)
	}

	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath keeps the label cardinality bounded to route
		// templates rather than raw URLs.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		r.metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
