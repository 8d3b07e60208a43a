package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/logging"
	"github.com/zephyrtronium/calc/internal/monitoring"
)

// Server serves formula evaluation over HTTP.
type Server struct {
	router  *gin.Engine
	http    *http.Server
	calc    *calc.Context
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// New creates a server from cfg. A nil logger discards logs.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if !cfg.Logging.Development && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics()
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(RateLimit(cfg.RateLimit, metrics))
	}

	s := &Server{
		router:  router,
		calc:    calc.NewContext(calc.DivPrec(cfg.Eval.DivPrec)),
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}

	router.GET("/health", s.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	v1 := router.Group("/v1")
	v1.POST("/evaluate", s.Evaluate)
	v1.POST("/tokens", s.Tokens)
	v1.GET("/stats", s.Stats)

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	return s
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run listens on the configured address until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.http.Addr),
		zap.Int32("div_prec", s.calc.DivPrec()),
	)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for active ones to finish or
// for ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	err := s.http.Shutdown(ctx)
	s.logger.Sync()
	return err
}
