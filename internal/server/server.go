package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/paperforge/internal/logging"
	"github.com/ppiankov/paperforge/internal/polish"
	"github.com/ppiankov/paperforge/internal/ratelimit"
)

// PolishPath is the route of the polish endpoint
const PolishPath = "/api/polish-text"

// Polisher performs the model call. polish.Engine satisfies it.
type Polisher interface {
	Polish(ctx context.Context, req polish.Request) (string, error)
}

// Server exposes the polish endpoint over HTTP
type Server struct {
	engine   *gin.Engine
	polisher Polisher
	limiter  ratelimit.Limiter
	log      *logging.Logger
}

// Config wires a Server
type Config struct {
	Polisher Polisher
	Limiter  ratelimit.Limiter
	Logger   *logging.Logger
	Mode     string // gin mode
}

// New builds the router
func New(cfg Config) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.NewMemoryLimiter(ratelimit.Settings{})
	}

	s := &Server{
		engine:   gin.New(),
		polisher: cfg.Polisher,
		limiter:  cfg.Limiter,
		log:      cfg.Logger.With("service", "PolishServer"),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger(s.log))

	s.engine.GET("/healthz", s.health)
	s.engine.OPTIONS(PolishPath, s.preflight)
	s.engine.POST(PolishPath, s.polishText)

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) preflight(c *gin.Context) {
	allowAnyOrigin(c)
	c.Status(http.StatusOK)
}

func (s *Server) polishText(c *gin.Context) {
	allowAnyOrigin(c)

	key := clientKey(c)
	decision, err := s.limiter.Allow(c.Request.Context(), key)
	if err != nil {
		s.log.Warn("rate limiter unavailable, allowing request", "client", key, "error", err)
	} else {
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			fail(c, http.StatusTooManyRequests, "Rate limit exceeded. Please wait a minute before trying again.")
			return
		}
	}

	var req polish.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := validate(req); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	if s.polisher == nil {
		s.log.Error("polish requested without a configured model")
		fail(c, http.StatusInternalServerError, "AI processing failed")
		return
	}

	text, err := s.polisher.Polish(c.Request.Context(), req)
	if err != nil {
		s.log.Error("polish failed", "transform", req.TransformType, "error", err)
		fail(c, http.StatusInternalServerError, "AI processing failed")
		return
	}

	c.JSON(http.StatusOK, polish.Response{PolishedText: text})
}

func validate(req polish.Request) string {
	if strings.TrimSpace(req.Text) == "" {
		return "Text is required"
	}
	if !req.Context.Valid() {
		return "Context with country, committee, and topic is required"
	}
	if !req.TransformType.Valid() {
		names := make([]string, len(polish.TransformTypes))
		for i, t := range polish.TransformTypes {
			names[i] = string(t)
		}
		return "Invalid transformType; expected one of: " + strings.Join(names, ", ")
	}
	return ""
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":        msg,
		"polishedText": "",
	})
}
