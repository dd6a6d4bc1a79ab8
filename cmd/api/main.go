package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"places-backend/internal/config"
	"places-backend/internal/handlers"
	"places-backend/internal/places"
	"places-backend/internal/repository"
	"places-backend/internal/storage"
	"places-backend/models"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Place{}, &models.PlaceImage{}); err != nil {
		slog.Error("Failed to auto migrate models", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewS3Storage(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to configure object storage", "error", err)
		os.Exit(1)
	}

	repos := repository.NewGorm(db)
	svc := places.NewService(repos, store, cfg.MaxImageSize, cfg.ThumbWidth)

	usersH := handlers.NewUserHandler(repos.Users(), []byte(cfg.SecretKey), cfg.TokenValidity)
	placesH := handlers.NewPlaceHandler(svc, cfg.MaxImageSize)
	router := handlers.NewRouter(usersH, placesH, []byte(cfg.SecretKey))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("Starting API server", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
