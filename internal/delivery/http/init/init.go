package http_init

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
	logger *slog.Logger

	middleware []gin.HandlerFunc
}

type Option func(*ControllerPool)

func WithLogger(logger *slog.Logger) Option {
	return func(p *ControllerPool) {
		p.logger = logger
	}
}

// WithMiddleware installs handlers in front of every route.
func WithMiddleware(handlers ...gin.HandlerFunc) Option {
	return func(p *ControllerPool) {
		p.middleware = append(p.middleware, handlers...)
	}
}

func NewControllerPool(opts ...Option) *ControllerPool {
	engine := gin.New()
	pool := &ControllerPool{
		pool:   make([]Controller, 0, 10),
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(pool)
	}
	engine.Use(gin.Recovery(), pool.requestLogger())
	engine.Use(pool.middleware...)
	pool.rg = engine.Group(apiPrefix)
	pool.rg.GET("/health", health)
	return pool
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (pool *ControllerPool) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		pool.logger.Debug("request",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"status", ctx.Writer.Status(),
			"latency", time.Since(start))
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

// RunAll serves until ctx is cancelled, then drains in-flight requests for at
// most shutdownTimeout.
func (pool *ControllerPool) RunAll(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           pool.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		pool.logger.Info("http server started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to run HTTP server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	pool.logger.Info("http server stopped")
	return nil
}
