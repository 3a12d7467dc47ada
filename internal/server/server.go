package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options wires the HTTP surface to the agent.
type Options struct {
	Turns          TurnHandler
	States         StateReader
	Logger         *zap.Logger
	Gatherer       prometheus.Gatherer // nil serves the default registry
	JWTSecret      []byte              // empty leaves /api open
	PasswordHash   []byte              // enables /api/auth when set together with JWTSecret
	SecureCookies  bool
	AllowedOrigins []string
}

// New builds the echo instance with middleware and routes.
func New(opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	// Unified HTTP error handler with structured JSON and logging
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Warn("request failed",
			zap.Int("status", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("remote_ip", c.RealIP()),
			zap.Error(err),
		)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "Cookie"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	metrics := promhttp.Handler()
	if opts.Gatherer != nil {
		metrics = promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})
	}
	e.GET("/metrics", echo.WrapHandler(metrics))

	if len(opts.PasswordHash) > 0 && len(opts.JWTSecret) > 0 {
		auth := &AuthHandler{PasswordHash: opts.PasswordHash, Secret: opts.JWTSecret, Secure: opts.SecureCookies}
		auth.Register(e.Group("/api/auth"))
	}

	chat := e.Group("/api/chat")
	if len(opts.JWTSecret) > 0 {
		chat.Use(EchoAuthMiddleware(opts.JWTSecret))
	}
	h := &ChatHandler{Turns: opts.Turns, States: opts.States, Logger: logger}
	h.Register(chat)
	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- e.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
