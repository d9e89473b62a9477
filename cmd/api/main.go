package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"channel-radio/internal/api/handlers"
	apiserver "channel-radio/internal/api/server"
	"channel-radio/internal/config"
	database "channel-radio/internal/db"
	"channel-radio/internal/schedule"
	"channel-radio/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Channel Scheduling API...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations + Seed
	db.AutoMigrate()
	database.SeedAdminUser(db.DB)

	if cfg.Schedule.TemplatePath != "" {
		tpl, err := schedule.LoadTemplate(cfg.Schedule.TemplatePath)
		if err != nil {
			log.Printf("⚠️ Could not load grid template: %v", err)
		} else {
			loc, locErr := time.LoadLocation(cfg.Schedule.Timezone)
			if locErr != nil {
				loc = time.UTC
			}
			week := schedule.NewWeek(time.Now(), loc)
			database.SeedWeekFromTemplate(db.DB, tpl, week)
		}
	}

	// 4. Storage
	st := storage.New(cfg)

	// 5. Setup Metrics
	handlers.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 6. Start Server
	srv := apiserver.New(cfg, db, st)

	log.Printf("🚀 API Server starting on %s", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
