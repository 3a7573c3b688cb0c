// Package server assembles the gin engine: middleware, routes, and the
// production static bundle.
package server

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bridgeapp/bridge/internal/auth"
	"github.com/bridgeapp/bridge/internal/config"
	"github.com/bridgeapp/bridge/internal/gateway"
	"github.com/bridgeapp/bridge/internal/health"
	"github.com/bridgeapp/bridge/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bridgeapp/bridge/internal/summaries"
)

// Deps carries everything the router binds together.
type Deps struct {
	Config    *config.Config
	Auth      *auth.Service
	Generator gateway.Generator
	Summaries store.SummaryStore
}

// New builds the gin engine with all routes and middleware wired.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.Use(recovery())
	r.Use(requestLogger())
	r.Use(bodyLimit(cfg.MaxBodyBytes))
	r.Use(sessionMiddleware(cfg))
	r.Use(corsMiddleware(cfg))

	r.GET("/health", gin.WrapF(health.Handler))

	// Content analysis: open to anonymous callers, persisted for known ones.
	r.POST("/summarize", auth.OptionalAuth(), summaries.SummarizeHandler(deps.Generator, deps.Summaries))
	r.POST("/api/describe", auth.OptionalAuth(), summaries.DescribeHandler(deps.Generator, deps.Summaries))
	r.POST("/api/analyze-file", auth.OptionalAuth(), summaries.AnalyzeFileHandler(deps.Generator, deps.Summaries))

	// Credentials and recovery.
	r.POST("/api/signup", auth.HandleSignup(deps.Auth))
	r.POST("/api/login", auth.HandleLogin(deps.Auth))
	r.POST("/api/recover", auth.HandleRecover(deps.Auth))
	r.POST("/api/reset", auth.HandleReset(deps.Auth))

	// Google OAuth.
	r.GET("/auth/google", auth.HandleGoogleLogin)
	r.GET("/auth/google/callback", auth.HandleGoogleCallback(deps.Auth, cfg))

	// Session-bound endpoints.
	r.GET("/api/logout", auth.RequireAuth(), auth.HandleLogout)
	r.GET("/api/current_user", auth.OptionalAuth(), auth.HandleCurrentUser(deps.Auth))
	r.GET("/api/history", auth.RequireAuth(), summaries.HistoryHandler(deps.Summaries))
	r.DELETE("/api/history/:id", auth.RequireAuth(), summaries.DeleteHandler(deps.Summaries))

	if cfg.IsProduction() {
		serveStatic(r, cfg.StaticDir)
	}

	return r
}

// recovery converts handler panics into a JSON 500 without taking the
// process down.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("Panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		slog.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// bodyLimit caps request bodies; base64 uploads land whole in memory, so
// the cap is the practical file-size ceiling.
func bodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func sessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions("bridge_session", cookieStore)
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// serveStatic serves the pre-built SPA bundle with an index.html fallback
// for client-side routes.
func serveStatic(r *gin.Engine, dir string) {
	slog.Info("Serving static files", "dir", dir)
	r.Static("/assets", filepath.Join(dir, "assets"))
	r.StaticFile("/", filepath.Join(dir, "index.html"))
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") || strings.HasPrefix(c.Request.URL.Path, "/auth") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
}
