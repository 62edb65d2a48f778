package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelist/api"
	"reelist/config"
	"reelist/handlers"
	"reelist/internal/database"
	"reelist/services/ingest"
	"reelist/services/metadata"
	"reelist/services/watchlist"
	"reelist/utils"
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}

	if cfg.TMDBAPIKey == "" {
		log.Fatal("[main] TMDB_API_KEY is required")
	}
	if cfg.ExtractorAPIKey == "" {
		log.Printf("[main] EXTRACTOR_API_KEY not set, link ingestion will be unavailable")
	}

	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(cfg.DataDir, "reelist.db"),
	})
	if err != nil {
		log.Fatalf("[main] database init failed: %v", err)
	}
	defer db.Close()

	metadataSvc := metadata.NewService(cfg.TMDBAPIKey, nil)
	watchlistSvc := watchlist.NewService(db.Watchlist)
	pipeline := ingest.NewPipeline(
		ingest.NewCaptionScraper(nil),
		ingest.NewTitleExtractor(cfg.ExtractorAPIKey, nil),
		metadataSvc,
		watchlistSvc,
	)

	router := utils.NewRouter(cfg.AllowedOrigins)
	router.Use(api.RequestLoggingMiddleware())

	handlers.NewWatchlistHandler(watchlistSvc).RegisterRoutes(router)
	handlers.NewMetadataHandler(metadataSvc, watchlistSvc).RegisterRoutes(router)

	// Link ingestion triggers a scrape and a model call, so it gets its own
	// per-IP budget.
	ingestLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)
	handlers.NewIngestHandler(pipeline).RegisterRoutes(router, ingestLimiter)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("[main] listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
