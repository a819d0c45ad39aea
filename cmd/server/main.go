// Package main runs the logbook backend: registration, login, per-user
// entry CRUD over sqlite and document generation through the configured
// endpoint.
package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Jnxx02/logbook-kkn-generator/cmd/server/handlers"
	"github.com/Jnxx02/logbook-kkn-generator/internal/auth"
	"github.com/Jnxx02/logbook-kkn-generator/internal/db"
	"github.com/Jnxx02/logbook-kkn-generator/internal/export"
	"github.com/Jnxx02/logbook-kkn-generator/internal/logging"
	"github.com/Jnxx02/logbook-kkn-generator/internal/store"
)

// config holds the environment-driven server settings.
type config struct {
	port             string
	dbPath           string
	jwtSecret        string
	jwtExpiry        time.Duration
	generateEndpoint string
	imageBudget      int
	logLevel         logging.Level
}

func loadConfig() config {
	cfg := config{
		port:             envOr("PORT", "8000"),
		dbPath:           envOr("DB_PATH", "./data/logbook.db"),
		jwtSecret:        os.Getenv("JWT_SECRET"),
		jwtExpiry:        30 * time.Minute,
		generateEndpoint: envOr("GENERATE_ENDPOINT", "http://localhost:8001/api/generate-word"),
		imageBudget:      2 << 20,
		logLevel:         logging.LevelInfo,
	}
	if minutes, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_MINUTES")); err == nil && minutes > 0 {
		cfg.jwtExpiry = time.Duration(minutes) * time.Minute
	}
	if budget, err := strconv.Atoi(os.Getenv("IMAGE_MAX_BYTES")); err == nil && budget > 0 {
		cfg.imageBudget = budget
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.logLevel = logging.ParseLevel(level)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg := loadConfig()
	logging.Init(os.Stdout, cfg.logLevel)

	if cfg.jwtSecret == "" {
		logging.Error("JWT_SECRET is not set", nil)
		os.Exit(1)
	}

	database, err := db.Open(cfg.dbPath)
	if err != nil {
		logging.Error("failed to open database", err)
		os.Exit(1)
	}
	defer database.Close()

	imageKV, err := store.NewFileKV(filepath.Join(filepath.Dir(cfg.dbPath), "images"))
	if err != nil {
		logging.Error("failed to open image storage", err)
		os.Exit(1)
	}
	images := store.NewImageStore(imageKV)

	repo := db.NewRepository(database)
	tokens := auth.NewManager(cfg.jwtSecret, cfg.jwtExpiry)
	exporter := export.NewService(cfg.generateEndpoint, images)

	authHandler := handlers.NewAuthHandler(repo, tokens)
	logbookHandler := handlers.NewLogbookHandler(repo, images, exporter, cfg.imageBudget)

	router := mux.NewRouter()
	router.HandleFunc("/api/health", handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/register", authHandler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/login", authHandler.Login).Methods(http.MethodPost)

	protected := router.NewRoute().Subrouter()
	protected.Use(tokens.Middleware)
	protected.HandleFunc("/logbook", logbookHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/logbook", logbookHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/logbook/generate", logbookHandler.Generate).Methods(http.MethodPost)
	protected.HandleFunc("/logbook/{id}", logbookHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/logbook/{id}", logbookHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/logbook/{id}/image", logbookHandler.Image).Methods(http.MethodGet)
	protected.HandleFunc("/admin/logbook", logbookHandler.AdminList).Methods(http.MethodGet)

	logging.Info("logbook server starting", map[string]interface{}{
		"port":    cfg.port,
		"db_path": cfg.dbPath,
	})
	if err := http.ListenAndServe(":"+cfg.port, router); err != nil {
		logging.Error("server stopped", err)
		os.Exit(1)
	}
}
