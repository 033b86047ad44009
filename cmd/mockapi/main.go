// mockapi is a development stand-in for the marketplace backend: the same
// REST surface the client consumes, backed by an in-memory sqlite store (or
// Postgres when DATABASE_URL is set).
package main

import (
	"go.uber.org/zap"

	"github.com/aldoetobex/legal-mp-client/internal/config"
	"github.com/aldoetobex/legal-mp-client/internal/mockapi"
	"github.com/aldoetobex/legal-mp-client/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := mockapi.OpenStore(cfg.Mock.DatabaseURL)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	app := mockapi.New(db, cfg.Mock.JWTSecret, mockapi.WithTokenTTL(cfg.Mock.TokenTTL))

	log.Info("mockapi running", zap.String("port", cfg.Mock.Port))
	if err := app.Listen(":" + cfg.Mock.Port); err != nil {
		log.Fatal("listen", zap.Error(err))
	}
}
