package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/monitor"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	ServiceName         = "volume-monitor"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// StateReader is the read side of the monitor state.
type StateReader interface {
	Snapshot() monitor.Snapshot
	Symbol(symbol string) (monitor.SymbolStatus, bool)
	Anomalous() []string
}

// Server exposes the monitor state over HTTP.
type Server struct {
	web    *http.Server
	state  StateReader
	logger zerolog.Logger
}

func New(addr string, state StateReader) *Server {
	s := &Server{
		web: &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
		},
		state:  state,
		logger: log.With().Str("component", "status_api").Logger(),
	}
	s.web.Handler = s.Routes()
	return s
}

// Routes builds the gin engine.
func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(s.loggerMiddleware())
	router.Use(gin.Recovery())

	router.GET("/health", s.health)
	router.GET("/symbols", s.symbols)
	router.GET("/symbols/:symbol", s.symbol)

	return router
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	closed := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.web.Addr).Msg("Status API listening")
		closed <- s.web.ListenAndServe()
	}()

	select {
	case err := <-closed:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.web.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

func (s *Server) health(c *gin.Context) {
	snap := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":        "OK",
		"service":       ServiceName,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"started_at":    snap.StartedAt.UTC().Format(time.RFC3339),
		"cycles":        snap.Cycles,
		"last_cycle_id": snap.LastCycleID,
		"anomalous":     s.state.Anomalous(),
	})
}

func (s *Server) symbols(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot().Symbols)
}

func (s *Server) symbol(c *gin.Context) {
	sym := strings.ToUpper(c.Param("symbol"))
	st, ok := s.state.Symbol(sym)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "symbol not monitored",
			"symbol":     sym,
			"request_id": c.GetString(RequestIDContextKey),
		})
		return
	}
	c.JSON(http.StatusOK, st)
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeaderKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeaderKey, requestID)
		c.Set(RequestIDContextKey, requestID)
		c.Next()
	}
}

func (s *Server) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("request_id", c.GetString(RequestIDContextKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}
