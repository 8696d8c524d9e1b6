// Package server provides the HTTP status endpoints for the bot.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nestieai/nestie/internal/chat"
	"github.com/nestieai/nestie/internal/version"
)

// Server is the HTTP server (Echo) exposing health and status routes.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// StatusResponse is what GET /status returns.
type StatusResponse struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	DocumentCount int      `json:"document_count"`
	Documents     []string `json:"documents"`
	Sessions      int      `json:"sessions"`
}

// NewServer builds the Echo server with recovery and request logging.
func NewServer(log *slog.Logger, addr string, svc *chat.Service, hub *chat.Hub) *Server {
	if addr == "" {
		addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/status", func(c echo.Context) error {
		names := svc.DocumentNames()
		return c.JSON(http.StatusOK, StatusResponse{
			Status:        "ready",
			Version:       version.Version,
			DocumentCount: len(names),
			Documents:     names,
			Sessions:      hub.Count(),
		})
	})

	return &Server{
		echo:   e,
		addr:   addr,
		logger: log.With(slog.String("component", "server")),
	}
}

// Start starts the HTTP server (blocks until shutdown).
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Stop gracefully shuts down the server using the given context.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
