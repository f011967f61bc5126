package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-demenagement/internal/config"
	"github.com/diewo77/go-demenagement/internal/db"
	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/services"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.Configure(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err := cfg.App.Validate(); err != nil {
		log.WithError(err).Fatal("refusing to start with development secrets")
	}
	for _, key := range cfg.App.InsecureDefaults() {
		log.WithField("variable", key).Warn("using the development default")
	}

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn, cfg.Database, cfg.App.Migrations); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Info("migrations completed successfully")
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(context.Background(), dbConn, cfg.App.AdminEmail, cfg.App.AdminPassword); err != nil {
			log.WithError(err).Fatal("seeding failed")
		}
		log.Info("seeding completed successfully")
		return
	}

	if err := db.Migrate(dbConn, cfg.Database, cfg.App.Migrations); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if err := db.Seed(context.Background(), dbConn, cfg.App.AdminEmail, cfg.App.AdminPassword); err != nil {
		log.WithError(err).Fatal("seeding failed")
	}

	deps := services.Deps{
		Repo:     store.New(dbConn),
		Location: cfg.App.Location(),
	}
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.WithError(err).Fatal("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		deps.Broker = feed.NewRedis(rdb)
		deps.Fallback = fallback.NewRedis(rdb, cfg.Redis.FallbackTTL)
		log.Info("change feed and fallback copies use redis")
	} else {
		deps.Broker = feed.NewMemory()
		deps.Fallback = fallback.NewMemory()
		log.Info("change feed and fallback copies are in-process")
	}
	defer deps.Broker.Close()

	app := NewApp(cfg, deps)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	app.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(app),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).WithField("dev", cfg.App.Dev).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	stop()
	app.Stop()
	log.Info("server stopped gracefully")
}
