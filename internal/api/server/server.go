package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"channel-radio/internal/archive"
	"channel-radio/internal/config"
	database "channel-radio/internal/db"
	"channel-radio/internal/schedule"
	"channel-radio/internal/storage"
	"channel-radio/internal/store"

	"channel-radio/internal/api/handlers"
	"channel-radio/internal/api/middleware"
)

type Server struct {
	cfg     *config.Config
	db      *database.Client
	storage *storage.Client
	clock   schedule.Clock
	loc     *time.Location
	router  *gin.Engine
}

func New(cfg *config.Config, db *database.Client, st *storage.Client) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode) // Set to Release for production
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Printf("⚠️ Unknown timezone %q, falling back to UTC", cfg.Schedule.Timezone)
		loc = time.UTC
	}

	s := &Server{
		cfg:     cfg,
		db:      db,
		storage: st,
		clock:   schedule.RealClock{},
		loc:     loc,
		router:  gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}

	// "Authorization" must be allowed so the frontend can send the JWT
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	secret := []byte(s.cfg.Auth.JWTSecret)

	shows := store.NewShowStore(s.db.DB, s.clock)
	publisher := archive.NewPublisher(shows, s.storage, s.clock, s.cfg.Server.TempDir)

	authHandler := handlers.NewAuthHandler(s.db.DB, secret)
	showHandler := handlers.NewShowHandler(shows)
	scheduleHandler := handlers.NewScheduleHandler(shows, s.clock, s.loc)
	archiveHandler := handlers.NewArchiveHandler(publisher)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "channel-radio"})
	})

	// API Group
	v1 := s.router.Group("/api/v1")
	{
		// ==========================================
		// PUBLIC ROUTES (No Token Required)
		// ==========================================
		v1.POST("/auth/login", authHandler.Login)

		// Listeners browse the weekly grid and the live status freely.
		v1.GET("/schedule", scheduleHandler.GetWeek)
		v1.GET("/onair", scheduleHandler.GetOnAir)
		v1.GET("/shows/:id", showHandler.GetShow)

		// ==========================================
		// PROTECTED ROUTES (JWT Token Required)
		// ==========================================
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(secret))
		{
			// --- ADMIN ONLY ---
			// Only Admins can register new staff to the station.
			protected.POST("/auth/register", middleware.RequireRole("admin"), authHandler.Register)

			// --- MANAGER ONLY (Program Directors) ---
			// Only Managers (and Admins) can change the broadcast calendar.
			protected.POST("/shows", middleware.RequireRole("manager"), showHandler.CreateShow)
			protected.PATCH("/shows/:id", middleware.RequireRole("manager"), showHandler.UpdateShow)
			protected.DELETE("/shows/:id", middleware.RequireRole("manager"), showHandler.DeleteShow)
			protected.POST("/shows/:id/publish", middleware.RequireRole("manager"), archiveHandler.PublishRecording)
		}
	}
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
