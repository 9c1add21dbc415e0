package rest

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo
}

func New(logger *slog.Logger, auth authService, users userService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	handler := newHandler(logger, auth, users)

	e.GET("/ping", handler.Ping)

	api := e.Group("/api/auth")
	api.POST("/register", handler.Register)
	api.POST("/login", handler.Login)
	api.GET("/me", handler.Me)

	return &Server{
		logger: logger.With("component", "rest"),
		echo:   e,
	}
}

// Start - starts the HTTP server.
func (that *Server) Start(port string) error {
	if err := that.echo.Start(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
