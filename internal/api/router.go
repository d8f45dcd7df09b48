// Package api exposes the control-plane HTTP surface: store CRUD, the event
// log, health probes and metrics. Handlers translate requests into
// orchestrator calls and serialize results into a uniform JSON envelope.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/storeplane/storeplane/internal/config"
	"github.com/storeplane/storeplane/internal/store"
)

// HealthChecker reports downstream connectivity for the readiness probe.
type HealthChecker func(ctx context.Context) error

// Router wires the HTTP layer to the store orchestrator.
type Router struct {
	engine  *gin.Engine
	server  *http.Server
	stores  *store.Service
	healthz HealthChecker
	logger  *zap.Logger
}

// NewRouter builds the gin engine with middleware and routes registered.
func NewRouter(cfg *config.Config, stores *store.Service, healthz HealthChecker, logger *zap.Logger) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))
	engine.Use(Metrics())

	corsConfig := cors.DefaultConfig()
	if cfg.CORSOrigin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
		corsConfig.AllowCredentials = true
	}
	engine.Use(cors.New(corsConfig))

	r := &Router{
		engine:  engine,
		stores:  stores,
		healthz: healthz,
		logger:  logger,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	r.registerRoutes()
	return r
}

func (r *Router) registerRoutes() {
	r.engine.GET("/api", r.serviceInfo)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	health := r.engine.Group("/api/health")
	health.GET("/live", r.live)
	health.GET("/ready", r.ready)

	stores := r.engine.Group("/api/stores")
	stores.GET("", r.listStores)
	stores.POST("", r.createStore)
	stores.GET("/:id", r.getStore)
	stores.DELETE("/:id", r.deleteStore)
	stores.GET("/:id/events", r.getStoreEvents)
}

// Handler exposes the underlying handler, mainly for tests.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (r *Router) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("control API listening", zap.String("addr", r.server.Addr))
		errCh <- r.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return r.server.Shutdown(shutdownCtx)
}

func (r *Router) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "storeplane-api",
		"status":  "ok",
		"endpoints": gin.H{
			"health": "/api/health/live",
			"stores": "/api/stores",
		},
	})
}
