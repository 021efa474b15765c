// Package server serves the competition calendar feed over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/compcal/internal/calendar"
	"github.com/pfrederiksen/compcal/internal/competition"
	"github.com/pfrederiksen/compcal/internal/logger"
	"github.com/pfrederiksen/compcal/internal/metrics"
)

const (
	contentTypeCalendar = "text/calendar; charset=utf-8"
	shutdownTimeout     = 10 * time.Second
)

// Lister returns the stored competition records
type Lister interface {
	List(ctx context.Context) ([]competition.Record, error)
}

// Server routes calendar, health and metrics requests
type Server struct {
	records Lister
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
	engine  *gin.Engine
}

// Option configures a Server
type Option func(*Server)

// WithCacheTTL reuses store listings for ttl.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.records = newRecordCache(s.records, ttl)
		}
	}
}

// New creates a server reading records from records. m may be nil, in which
// case /metrics is not registered.
func New(records Lister, m *metrics.Metrics, log *logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Default()
	}
	s := &Server{
		records: records,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/cal", s.calendar)
	r.GET("/cal/*path", s.calendar)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) calendar(c *gin.Context) {
	sel := calendar.ParsePath(c.Param("path"))

	records, err := s.records.List(c.Request.Context())
	if err != nil {
		s.log.Error("Listing records failed", logger.Fields{"path": c.Request.URL.Path}, err)
		c.String(http.StatusInternalServerError, "failed to load competitions")
		return
	}

	matched := sel.Filter(records)
	ics := calendar.Build(sel.Name(), matched, s.now())

	s.log.Debug("Serving calendar", logger.Fields{
		"regions":     sel.Regions,
		"sub_regions": sel.SubRegions,
		"count":       len(matched),
	})
	c.Data(http.StatusOK, contentTypeCalendar, []byte(ics))
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		if s.metrics != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			s.metrics.ObserveRequest(route, c.Writer.Status(), elapsed)
		}
		s.log.Info("HTTP request", logger.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": elapsed.Milliseconds(),
		})
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
