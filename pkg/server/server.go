package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-consumable/pkg/common/http/handler"
	"github.com/huynhanx03/go-consumable/pkg/datastructs/consumable"
	"github.com/huynhanx03/go-consumable/pkg/settings"
	"github.com/huynhanx03/go-consumable/pkg/utils"
)

const (
	modeContains = "contains"
	modePrefix   = "prefix"

	defaultShutdownTimeout = 20
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithRefs reports the number of live pool handles in /v1/stats.
func WithRefs(fn func() int64) Option {
	return func(s *Server) { s.refs = fn }
}

// Server exposes a string pool over HTTP.
type Server struct {
	cfg      settings.Server
	pool     consumable.Container[string]
	log      *zap.Logger
	gatherer prometheus.Gatherer
	refs     func() int64
	engine   *gin.Engine
}

// New builds the gin engine and registers the routes.
func New(cfg settings.Server, pool consumable.Container[string], opts ...Option) *Server {
	s := &Server{cfg: cfg, pool: pool, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), accessLog(s.log))
	s.routes()
	return s
}

func (s *Server) routes() {
	v1 := s.engine.Group("/v1")
	v1.POST("/items", handler.Wrap(s.addItems))
	v1.POST("/consume", handler.Wrap(s.consume))
	v1.GET("/stats", handler.Wrap(s.stats))

	if s.gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "http server")
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), utils.ToDuration(timeout))
	defer cancel()

	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown")
	}
	return <-errCh
}

func (s *Server) addItems(_ context.Context, req *AddItemsRequest) (AddItemsResponse, error) {
	s.pool.AddAll(req.Items...)
	return AddItemsResponse{Added: len(req.Items)}, nil
}

func (s *Server) consume(_ context.Context, req *ConsumeRequest) (ConsumeResponse, error) {
	var match consumable.Predicate[string]
	switch req.Mode {
	case modePrefix:
		match = consumable.HasPrefix[string](req.Pattern)
	case modeContains, "":
		match = consumable.Contains[string](req.Pattern)
	}

	batch, ok := s.pool.Consume(match)
	if !ok {
		return ConsumeResponse{Items: []string{}}, nil
	}
	return ConsumeResponse{Found: true, Items: batch.Items()}, nil
}

func (s *Server) stats(_ context.Context, _ *StatsRequest) (StatsResponse, error) {
	res := StatsResponse{Len: s.pool.Len()}
	if s.refs != nil {
		res.Refs = s.refs()
	}
	return res, nil
}

func accessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
