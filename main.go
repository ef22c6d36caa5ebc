package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			logger.Fatal("database", zap.String("path", cfg.DBPath), zap.Error(err))
		}
		defer db.Close()
		logger.Info("round history enabled", zap.String("path", cfg.DBPath))
	}

	analytics := NewAnalytics(db, logger.Named("analytics"))
	arena := NewArena(ArenaOptions{
		Logger:    logger.Named("arena"),
		Analytics: analytics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := NewHub(arena, analytics, logger.Named("hub"))
	go hub.Run(ctx)

	scheduler := NewScheduler(arena, cfg.LogicHz, cfg.PhysicsHz, logger.Named("loop"))
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	server := &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub)}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
	<-done
	analytics.Stop()
}
