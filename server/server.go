// Package server is the browser surface of the researcher: a gin engine serving a small
// HTML chat page and a JSON API, one session per browser cookie.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rickchristie/researcher/config"
	"github.com/rickchristie/researcher/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "researcher_session"

//go:embed templates/*.html
var templateFS embed.FS

var registerValidators sync.Once

// Server routes HTTP requests to sessions.
type Server struct {
	cfg      config.ServerConfig
	sessions *session.Manager
	logger   *slog.Logger
	engine   *gin.Engine
}

// New builds the gin engine. A nil logger discards logs.
func New(cfg config.ServerConfig, sessions *session.Manager, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var err error
	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			err = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("server: register validators: %w", err)
	}

	tmpl, err := template.New("").
		Funcs(template.FuncMap{"markdown": renderMarkdown}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}

	s := &Server{cfg: cfg, sessions: sessions, logger: logger}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.logRequests)
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/healthz", s.healthz)

	page := engine.Group("/", s.withSession)
	page.GET("", s.index)
	page.POST("credential", s.submitCredential)
	page.POST("chat", s.submitQuestion)
	page.POST("reset", s.reset)

	api := engine.Group("/api", cors.New(s.corsConfig()), s.withSession)
	// Preflight requests only reach the cors middleware through a matching route.
	api.OPTIONS("/*path", func(*gin.Context) {})
	api.GET("/messages", s.apiMessages)
	api.POST("/credential", s.apiCredential)
	api.POST("/chat", s.apiChat)

	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = s.cfg.AllowOrigins
	cfg.AllowCredentials = true
	return cfg
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	attrs := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"duration", time.Since(start),
	}
	if len(c.Errors) > 0 {
		attrs = append(attrs, "error", c.Errors.String())
	}
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error("request", attrs...)
	case status >= http.StatusBadRequest:
		s.logger.Warn("request", attrs...)
	default:
		s.logger.Debug("request", attrs...)
	}
}

// withSession resolves the session from the cookie, creating one when the cookie is
// missing or expired.
func (s *Server) withSession(c *gin.Context) {
	id, _ := c.Cookie(SessionCookie)
	sess, created := s.sessions.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID(), 0, "/", "", false, true)
	}
	c.Set(SessionCookie, sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(SessionCookie).(*session.Session)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}
