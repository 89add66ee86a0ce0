package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/youruser/speakerpack/internal/api"
	"github.com/youruser/speakerpack/internal/blob"
	"github.com/youruser/speakerpack/internal/config"
	"github.com/youruser/speakerpack/internal/pack"
	"github.com/youruser/speakerpack/internal/platform/logger"
	"github.com/youruser/speakerpack/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.Server)

	st := store.NewMemoryStore()
	// Seed documents at startup (best-effort)
	if err := st.LoadSeed("data/seed.json"); err != nil {
		log.Warn("no seed data loaded", "error", err)
	}

	publisher := &blob.LocalPublisher{
		Bucket:     cfg.Storage.Bucket,
		Dir:        cfg.Storage.Dir,
		PublicBase: cfg.Storage.PublicBase,
	}

	pipeline, err := pack.New(st, publisher, pack.Options{
		BaseURL:     cfg.Render.BaseURL,
		Brand:       cfg.Render.Brand,
		Concurrency: cfg.Render.Concurrency,
	}, log)
	if err != nil {
		log.Error("building pipeline", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	api.RegisterRoutes(r, &api.Handler{Pipeline: pipeline, Store: st, Logger: log}, cfg.Auth.AdminToken)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
