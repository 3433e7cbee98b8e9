package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sidgureja7803/dev-tinder-server/internal/config"
	"github.com/sidgureja7803/dev-tinder-server/internal/infra/logger"
	"github.com/sidgureja7803/dev-tinder-server/internal/jobs/retention"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
)

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	job := retention.New(pgrepo.NewSwipeRepo(pool), cfg.Retention.SwipeRetention, log)

	interval := cfg.Retention.SweepInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	log.Info("swipe retention sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("retention", cfg.Retention.SwipeRetention),
	)

	if err := job.Run(ctx); err != nil {
		log.Error("retention sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("swipe retention sweeper stopped")
			return
		case <-ticker.C:
			if err := job.Run(ctx); err != nil {
				log.Error("retention sweep failed", zap.Error(err))
			}
		}
	}
}
