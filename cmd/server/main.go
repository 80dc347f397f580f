package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/labstack/echo/v4"

	"github.com/packlab/booster-backend/internal/catalog"
	"github.com/packlab/booster-backend/internal/config"
	"github.com/packlab/booster-backend/internal/economy"
	"github.com/packlab/booster-backend/internal/server"
	"github.com/packlab/booster-backend/internal/store"
)

type appConfig struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	ConfigDir      string        `env:"CONFIG_DIR" envDefault:"configs"`
	CatalogPath    string        `env:"CATALOG_PATH" envDefault:"configs/catalog.yaml"`
	DBPath         string        `env:"DB_PATH" envDefault:"booster.db"`
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	StrictValidate bool          `env:"STRICT_VALIDATE" envDefault:"true"`
	WatchInterval  time.Duration `env:"WATCH_INTERVAL" envDefault:"10s"`
	CoinsPerPack   int           `env:"COINS_PER_PACK" envDefault:"100"`
	CoinsPerBundle int           `env:"COINS_PER_BUNDLE" envDefault:"900"`
	BundleSize     int           `env:"BUNDLE_SIZE" envDefault:"10"`
}

func main() {
	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	snap, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	cards := catalog.NewProvider(snap)
	slog.Info("catalog loaded", "cards", snap.Len(), "version", snap.Version())

	cfgs := config.NewLoader(cfg.ConfigDir)

	// hot reload: config edits invalidate the merge cache, catalog edits swap
	// in a fresh snapshot
	paths := config.Paths{BaseDir: cfg.ConfigDir}
	watcher := catalog.NewFileWatcher(
		[]string{cfg.CatalogPath, paths.DefaultPath()},
		cfg.WatchInterval,
		func(changed string) {
			cfgs.Invalidate()
			if changed == cfg.CatalogPath {
				fresh, err := catalog.Load(cfg.CatalogPath)
				if err != nil {
					slog.Error("catalog reload failed, keeping previous snapshot", "error", err)
					return
				}
				cards.Replace(fresh)
				slog.Info("catalog reloaded", "cards", fresh.Len())
			}
		},
	)
	watcher.Start()
	defer watcher.Stop()

	prices := economy.PriceTable{
		CoinsPerPack:   cfg.CoinsPerPack,
		CoinsPerBundle: cfg.CoinsPerBundle,
		BundleSize:     cfg.BundleSize,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(server.RequestIDMiddleware())
	e.Use(server.LoggingMiddleware(logger))

	h := server.NewHandler(cfgs, cards, db, prices, cfg.StrictValidate, cfg.CatalogPath)
	h.Register(e)

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
