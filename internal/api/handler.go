package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fishfarm-bot/internal/util"
)

// Pinger is any backend the readiness check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the operational endpoints. The bot itself talks to
// Telegram over long polling; this server exists for probes and scraping.
type Handler struct {
	backends map[string]Pinger
}

// NewHandler creates the ops handler. Nil backends are skipped, so the
// readiness check adapts to whatever is actually wired.
func NewHandler(backends map[string]Pinger) *Handler {
	probes := make(map[string]Pinger, len(backends))
	for name, p := range backends {
		if p != nil {
			probes[name] = p
		}
	}
	return &Handler{backends: probes}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck probes every wired backend and reports per-backend state.
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	overall := "ready"
	checks := gin.H{}
	for name, p := range h.backends {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			overall = "not ready"
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
