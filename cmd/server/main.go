package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/bakehouse-next/internal/app"
	"github.com/bakehouse-next/internal/config"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all / api / worker")
	flag.Parse()

	cfg := config.Load()

	log := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = log.Sync() }()

	checkJWTSecret(cfg)

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		logger.Fatalw("db_init_failed", "error", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalw("db_migrate_failed", "error", err)
	}

	if err := models.InitDefaultAdmin(
		os.Getenv("BH_DEFAULT_ADMIN_EMAIL"),
		os.Getenv("BH_DEFAULT_ADMIN_PASSWORD"),
	); err != nil {
		logger.Fatalw("default_admin_init_failed", "error", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		logger.Fatalw("app_run_failed", "error", err)
	}
}

// checkJWTSecret refuses to start in release mode with a placeholder secret.
func checkJWTSecret(cfg *config.Config) {
	if !isWeakSecret(cfg.JWT.SecretKey) {
		return
	}
	if cfg.Server.Mode == "release" {
		fmt.Fprintln(os.Stderr, "refusing to start: jwt.secret is weak or a placeholder, set a random value of at least 32 characters")
		os.Exit(1)
	}
	logger.Warnw("jwt_secret_weak", "hint", "set a random jwt.secret of at least 32 characters before deploying")
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	lowered := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
