// Package web serves the JSON extraction endpoint and the browser front-end.
package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"video-extract-api/shared"
)

// Extractor is the extraction use case the handlers depend on.
type Extractor interface {
	Extract(ctx context.Context, url, cookies string) (*shared.VideoInfo, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	cfg       *shared.Config
	extractor Extractor
	limiter   *shared.RateLimiter
	redis     *redis.Client
	ytDlpPath string
	templates *template.Template
}

func NewServer(cfg *shared.Config, extractor Extractor, limiter *shared.RateLimiter, redisClient *redis.Client, ytDlpPath string) *Server {
	return &Server{
		cfg:       cfg,
		extractor: extractor,
		limiter:   limiter,
		redis:     redisClient,
		ytDlpPath: ytDlpPath,
		templates: mustParseTemplates(),
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	if len(s.cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
			slog.Warn("invalid TRUSTED_PROXIES, trusting every peer", "err", err)
		}
	}
	r.Use(gin.Recovery(), requestLogger(), s.corsMiddleware())
	r.SetHTMLTemplate(s.templates)

	r.GET("/health", s.handleHealth)

	r.GET("/", s.handleIndex)
	r.POST("/", s.rateLimitMiddleware(), s.handleFormSubmit)

	api := r.Group("/api/video")
	api.OPTIONS("/extract", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.POST("/extract", s.rateLimitMiddleware(), s.handleExtract)

	return r
}

// requestLogger logs one line per request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware enables CORS for browser requests from the allowed origins
// and answers preflight requests.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := s.allowedOrigin(c.GetHeader("Origin")); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) allowedOrigin(origin string) string {
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" {
			return "*"
		}
		if origin != "" && o == origin {
			return origin
		}
	}
	return ""
}

// rateLimitMiddleware rejects clients above the per-minute quota. Clients are
// keyed by gin's ClientIP, which honors forwarding headers from trusted peers.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}
		allowed, remaining := s.limiter.Allow(c.ClientIP())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// handleHealth reports liveness and the state of optional backends.
func (s *Server) handleHealth(c *gin.Context) {
	redisState := "disabled"
	if s.redis != nil {
		redisState = "ok"
		if err := shared.PingRedis(c.Request.Context(), s.redis); err != nil {
			slog.Warn("redis ping failed", "err", err)
			redisState = "unavailable"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "API is healthy",
		"yt_dlp":  s.ytDlpPath,
		"redis":   redisState,
	})
}
