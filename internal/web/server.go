package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
)

// DefaultAddr is where the dashboard listens when no address is given.
const DefaultAddr = ":5001"

// Validator adapts go-playground/validator to echo's Validator interface
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate performs struct validation
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Server is the web dashboard: a JSON API over the secretary, the task
// store and the voice service, meant for a browser frontend.
type Server struct {
	sc     *server.ServerContext
	echo   *echo.Echo
	logger *slog.Logger
	addr   string
	node   string
}

// New creates a dashboard server around the shared server context.
// An empty addr falls back to DefaultAddr.
func New(sc *server.ServerContext, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	node := sc.Config().Team.Node
	if node == "" {
		node = "user"
	}

	s := &Server{
		sc:     sc,
		logger: sc.Logger(),
		addr:   addr,
		node:   node,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("http request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			if m := s.sc.Metrics(); m != nil {
				// c.Path() is the route template, so metric
				// cardinality stays bounded.
				m.RecordHTTPRequest(c.Request().Context(), v.Method, c.Path(), v.Status, v.Latency)
			}
			return nil
		},
	}))
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	v1 := e.Group("/v1")
	v1.GET("/tasks", s.handleListTasks)
	v1.GET("/projects", s.handleListProjects)
	v1.GET("/team", s.handleListTeam)
	v1.POST("/command", s.handleCommand)
	v1.POST("/transcribe", s.handleTranscribe)
	v1.POST("/speak", s.handleSpeak)

	s.echo = e
	return s
}

// Start begins serving and blocks until the listener fails or Shutdown
// runs.
func (s *Server) Start() error {
	s.logger.Info("web dashboard listening", slog.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// nodeKnown reports whether a requested node refers to the operator
// node. An empty node always does.
func (s *Server) nodeKnown(node string) bool {
	return node == "" || strings.EqualFold(node, s.node)
}
