package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"channel-radio/internal/archive"
	"channel-radio/internal/config"
	database "channel-radio/internal/db"
	"channel-radio/internal/schedule"
	"channel-radio/internal/storage"
	"channel-radio/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Channel Archive Worker...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	st := storage.New(cfg)
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()

	// 4. Setup Metrics
	archive.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		log.Fatal(http.ListenAndServe(cfg.Server.MetricsPort, nil))
	}()

	// Ensure temp directory exists for scratch downloads
	os.MkdirAll(cfg.Server.TempDir, 0755)

	// 5. Start Worker
	clock := schedule.RealClock{}
	shows := store.NewShowStore(db.DB, clock)
	publisher := archive.NewPublisher(shows, st, clock, cfg.Server.TempDir)
	worker := archive.NewWorker(publisher, shows, st,
		time.Duration(cfg.Server.PollingInterval)*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker.Run(ctx)
	log.Println("Archive worker stopped.")
}
