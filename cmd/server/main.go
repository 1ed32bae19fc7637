package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/communityspring/volunteer-api-go/pkg/auth"
	"github.com/communityspring/volunteer-api-go/pkg/config"
	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/communityspring/volunteer-api-go/pkg/handlers"
	"github.com/communityspring/volunteer-api-go/pkg/query"
	"github.com/communityspring/volunteer-api-go/pkg/salesforce"
	"github.com/communityspring/volunteer-api-go/pkg/signup"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	db := database.InitDB(cfg.DatabaseURL, cfg.SQLitePath)
	authSvc := auth.New(cfg.JWTSecret)
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Warn("could not bootstrap admin user", zap.Error(err))
	}

	sfClient := salesforce.NewClient(context.Background(), cfg.Salesforce)
	if sfClient == nil {
		logger.Info("salesforce credentials absent, sync disabled")
	}

	h := &handlers.Handler{
		DB:     db,
		Engine: signup.New(db, logger, cfg.Engine),
		Reader: query.New(db),
		Auth:   authSvc,
		Syncer: salesforce.NewSyncer(db, sfClient, logger, cfg.Engine),
		Log:    logger,
	}

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Volunteer Management API",
			"version": "1.2.0",
		})
	})

	r.POST("/volunteers", h.CreateVolunteer)

	r.GET("/opportunities", h.ListOpportunities)
	r.GET("/programs", h.ListPrograms)
	r.GET("/programs/:id/signup-status", h.ProgramSignupStatus)
	r.GET("/workshops", h.ListWorkshops)
	r.POST("/workshops/:id/participants", h.RegisterParticipant)

	r.POST("/signups", h.CreateSignup)
	r.POST("/signups/bulk-program", h.BulkProgramSignup)
	r.POST("/signups/bulk-workshops", h.BulkWorkshopsSignup)
	r.DELETE("/signups/:volunteerId/:opportunityId", h.CancelSignup)

	// Admin Endpoints
	r.POST("/admin/login", h.Login)
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/sync", h.TriggerSync)
		admin.GET("/stats", h.GetStats)
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

func newLogger() (*zap.Logger, error) {
	if gin.Mode() == gin.DebugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
