// Package server exposes the data source payload and the projected view over
// HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abatilo/taskboard/internal/dashboard"
	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/view"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// PayloadSource produces the encoded data source payload.
type PayloadSource interface {
	Payload(ctx context.Context) ([]byte, error)
}

// Server serves the dashboard API.
type Server struct {
	live    *dashboard.Live
	payload PayloadSource
	metrics *Metrics
	log     logger.Logger
	router  *gin.Engine
}

// New creates a Server. A nil payload disables /api/notion_entries.
func New(live *dashboard.Live, payload PayloadSource, metrics *Metrics, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{live: live, payload: payload, metrics: metrics, log: log}
	metrics.trackTasks(live)
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggerMiddleware(s.log))
	r.Use(corsMiddleware())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.GET("/notion_entries", s.notionEntries)
	api.GET("/board", s.board)
	api.GET("/tasks/:id", s.task)
	api.POST("/refresh", s.refresh)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "applied": s.live.State().Applied()})
}

func (s *Server) notionEntries(c *gin.Context) {
	if s.payload == nil {
		writeError(c, http.StatusServiceUnavailable, tberrors.NotConfiguredError{Setting: "notion.token", Env: "NOTION_TOKEN"})
		return
	}
	data, err := s.payload.Payload(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// board projects the current state. filter, sort and q override the
// server's defaults for this request only; unknown values are tolerated.
func (s *Server) board(c *gin.Context) {
	state := s.live.State()
	if v, ok := c.GetQuery("filter"); ok {
		f, known := view.ParseFilter(v)
		if !known {
			s.log.Warn("unknown filter", "value", v)
		}
		state = state.WithFilter(f)
	}
	if v, ok := c.GetQuery("sort"); ok {
		k, known := view.ParseSortKey(v)
		if !known {
			s.log.Warn("unknown sort key", "value", v)
		}
		state = state.WithSort(k)
	}
	if v, ok := c.GetQuery("q"); ok {
		state = state.WithQuery(v)
	}
	c.JSON(http.StatusOK, state.View())
}

func (s *Server) task(c *gin.Context) {
	id := c.Param("id")
	t, ok := s.live.State().Lookup(id)
	if !ok {
		writeError(c, http.StatusNotFound, tberrors.TaskNotFoundError{ID: id})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) refresh(c *gin.Context) {
	if err := s.live.Refresh(c.Request.Context()); err != nil {
		writeError(c, http.StatusBadGateway, err)
		return
	}
	state := s.live.State()
	c.JSON(http.StatusOK, gin.H{"applied": state.Applied(), "counts": view.Count(state.Tasks())})
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
