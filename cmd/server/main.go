package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bridgeapp/bridge/internal/auth"
	"github.com/bridgeapp/bridge/internal/config"
	"github.com/bridgeapp/bridge/internal/database"
	"github.com/bridgeapp/bridge/internal/gateway"
	"github.com/bridgeapp/bridge/internal/logging"
	"github.com/bridgeapp/bridge/internal/server"
	"github.com/bridgeapp/bridge/internal/store/gormdb"
	"github.com/gin-gonic/gin"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	auth.InitProviders(cfg)

	// One Gemini client per process, injected into the router.
	gen, err := gateway.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("Gemini client init failed", "error", err)
		os.Exit(1)
	}

	r := server.New(server.Deps{
		Config:    cfg,
		Auth:      auth.NewService(gormdb.NewUserStore(db)),
		Generator: gen,
		Summaries: gormdb.NewSummaryStore(db),
	})

	slog.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
