package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/centsible/centsible-server/internal/api"
	"github.com/centsible/centsible-server/internal/categorize"
	"github.com/centsible/centsible-server/internal/config"
	"github.com/centsible/centsible-server/internal/extract"
	"github.com/centsible/centsible-server/internal/importer"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	table := categorize.DefaultTable()
	if cfg.KeywordsFile != "" {
		loaded, err := categorize.LoadTable(cfg.KeywordsFile)
		if err != nil {
			log.WithError(err).Fatal("invalid keywords file")
		}
		table = loaded
		log.WithField("file", cfg.KeywordsFile).Info("loaded keyword table")
	}

	ctx := context.Background()

	var store importer.Store
	var settings importer.SettingsStore
	if cfg.DatabaseURL != "" {
		pg, err := importer.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("database connection failed")
		}
		defer pg.Close()
		store, settings = pg, pg
	} else {
		log.Warn("DATABASE_URL not set; running in parse-only mode")
	}

	var oracle extract.Oracle
	if cfg.GeminiAPIKey != "" {
		gem, err := extract.NewGeminiOracle(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.WithError(err).Fatal("extraction oracle setup failed")
		}
		defer gem.Close()
		oracle = gem
	} else {
		log.Warn("GEMINI_API_KEY not set; PDF and image uploads disabled")
	}

	coordinator := importer.New(store, settings, oracle, table, log)

	app := fiber.New(fiber.Config{
		AppName:   "centsible-server",
		BodyLimit: 32 << 20,
	})
	app.Use(recover.New())

	h := &api.Handler{Coordinator: coordinator, Log: log}
	h.Register(app)

	log.WithField("port", cfg.Port).Info("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
