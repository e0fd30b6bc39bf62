// Command towerscoped is the hosted Towerscope service. It serves the
// profile and ranking REST API over a pluggable storage backend, with an
// optional Postgres-backed rank-run history.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/towerscope/towerscope/internal/api"
	"github.com/towerscope/towerscope/internal/history"
	"github.com/towerscope/towerscope/internal/platform"
	"github.com/towerscope/towerscope/internal/store"
	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/config"
)

func loadConfig() *config.Config {
	path := envOrDefault("TOWERSCOPE_CONFIG", "")
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Environment overrides for containerized deployments.
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Server.DatabaseURL = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("LOCAL_STORAGE_PATH"); v != "" {
		cfg.Storage.LocalDir = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("GCS_BUCKET"); v != "" {
		cfg.Storage.GCSBucket = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Data.CatalogPath = v
	}
	if v := os.Getenv("RESEARCH_PATH"); v != "" {
		cfg.Data.ResearchPath = v
	}
	return cfg
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	cat, err := catalog.Load(cfg.Data.CatalogPath, cfg.Scoring.Categories)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	research, err := catalog.LoadResearch(cfg.Data.ResearchPath)
	if err != nil {
		log.Fatalf("load research: %v", err)
	}

	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	manager := store.NewManager(client, cat, cfg.Scoring.Categories)

	// Run history is optional: without a database the rank endpoints still
	// work, they just don't record anything.
	var historySvc *history.Service
	if cfg.Server.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.Server.DatabaseURL)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("ping database: %v", err)
		}
		if err := platform.AutoMigrate(db); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		historySvc = history.NewService(db)
	}

	handler := api.NewHandler(cat, research, manager, historySvc, cfg.Scoring.DefaultStrategy, nil)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.HandleFunc("GET /healthz", healthHandler())

	chain := api.CORS(api.APIKeyAuth(os.Getenv("API_KEY"))(mux))
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: chain,
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting towerscoped on :%s (storage=%s, catalog=%s, %d upgrades)",
			cfg.Server.Port, cfg.Storage.Backend, cat.DataVersion, len(cat.Upgrades))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-sigCtx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newStorageClient(ctx context.Context, cfg *config.Config) (store.Client, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return store.NewS3Storage(ctx, store.S3Config{
			Bucket:    cfg.Storage.S3.Bucket,
			Region:    cfg.Storage.S3.Region,
			Endpoint:  cfg.Storage.S3.Endpoint,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
		})
	case "gcs":
		return store.NewGCSStorage(ctx, cfg.Storage.GCSBucket)
	default:
		return store.NewLocalStorage(cfg.Storage.LocalDir), nil
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
