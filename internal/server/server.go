// Package server exposes the analysis service over HTTP under /api.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/meetmeter/internal/analysis"
	"github.com/alexanderramin/meetmeter/internal/auth"
	"github.com/alexanderramin/meetmeter/internal/repository"
)

// Deps are the collaborators the HTTP surface is wired to.
type Deps struct {
	Analyzer    *analysis.Analyzer
	Statuses    repository.StatusRepo
	Users       repository.UserRepo
	Credentials repository.CredentialRepo
	Verifier    auth.IdentityVerifier
	Sessions    *auth.SessionIssuer
	OAuth       *auth.OAuthFlow
	FrontendURL string
	CORSOrigins []string
	Logger      *zap.Logger
}

// Server handles the JSON API.
type Server struct {
	deps   Deps
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the router. gin runs in release mode; access logging goes through zap.
func New(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{deps: deps, logger: logger.Named("http")}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(s.logger), corsMiddleware(deps.CORSOrigins))

	api := r.Group("/api")
	api.GET("/", s.handleRoot)
	api.POST("/status", s.handleCreateStatus)
	api.GET("/status", s.handleListStatus)
	api.POST("/analyze-calendar", s.handleAnalyzeManual)
	api.POST("/auth/google", s.handleGoogleLogin)
	api.GET("/auth/callback", s.handleOAuthCallback)

	authed := api.Group("/", s.requireSession)
	authed.POST("/analyze-calendar-auto", s.handleAnalyzeAuto)
	authed.GET("/calendar/events", s.handleCalendarEvents)
	authed.GET("/auth/google-calendar", s.handleCalendarConsent)

	s.engine = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
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
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// corsHeaders is listed explicitly: browsers treat "*" literally on
// credentialed requests and it never covers Authorization.
var corsHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     corsHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// A wildcard origin cannot be combined with credentials, so the
		// request origin is echoed back instead.
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
