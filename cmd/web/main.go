package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/config"
	apphttp "ateliernoor.nl/app/internal/http"
	"ateliernoor.nl/app/internal/modules/email"
	"ateliernoor.nl/app/internal/modules/shipping"
	"ateliernoor.nl/app/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load()
	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	carrier, err := shipping.NewGateway(cfg.Carrier)
	if err != nil {
		log.Fatalf("carrier gateway: %v", err)
	}

	archive, err := storage.FromConfig(context.Background(), cfg.Archive)
	if err != nil {
		log.Fatalf("label archive: %v", err)
	}
	logger.Info("label archive ready", slog.String("driver", archive.Driver))

	r := apphttp.NewRouter(apphttp.Deps{
		DB:      db,
		Log:     logger,
		Mailer:  email.NewMailtrapProvider(cfg.Mail),
		Carrier: carrier,
		Archive: archive.Archive,
	})
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
