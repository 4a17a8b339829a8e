package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"portfolio-backend/cmd"
	"portfolio-backend/internal/api"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/storage"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type APIConfig struct {
	DatabaseURL       string `env:"DATABASE_URL,notEmpty,required"`
	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"s3"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	UploadBucketName  string `env:"UPLOAD_BUCKET_NAME" envDefault:"uploads"`
	PublicStorageURL  string `env:"PUBLIC_STORAGE_URL"`
	LocalStorageDir   string `env:"LOCAL_STORAGE_DIR" envDefault:"./data/uploads"`
	AllowedOrigins    string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	APIPort           string `env:"API_PORT" envDefault:"8001"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	objects := newObjectStore(&cfg)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(api.Recoverer) // Panics become the JSON error envelope

	// API Handlers (dependency injection)
	apiHandler := api.NewBackendService(db, objects)

	apiHandler.AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}

func newObjectStore(cfg *APIConfig) storage.ObjectStore {
	if cfg.StorageBackend == "local" {
		objects, err := storage.NewLocalObjectStore(cfg.LocalStorageDir, cfg.PublicStorageURL)
		if err != nil {
			log.Fatalf("Failed to create local object store: %v", err)
		}
		return objects
	}

	objects, err := storage.NewS3ObjectStore(storage.S3ClientConfig{
		Endpoint:        cfg.S3EndpointURL,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Bucket:          cfg.UploadBucketName,
		PublicBaseURL:   cfg.PublicStorageURL,
	})
	if err != nil {
		log.Fatalf("Failed to create S3 object store: %v", err)
	}
	return objects
}
