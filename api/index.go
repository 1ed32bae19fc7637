package handler

import (
	"context"
	"log"
	"net/http"

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

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}

	db := database.InitDB(cfg.DatabaseURL, cfg.SQLitePath)
	authSvc := auth.New(cfg.JWTSecret)
	_ = auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword)

	sfClient := salesforce.NewClient(context.Background(), cfg.Salesforce)

	h := &handlers.Handler{
		DB:     db,
		Engine: signup.New(db, logger, cfg.Engine),
		Reader: query.New(db),
		Auth:   authSvc,
		Syncer: salesforce.NewSyncer(db, sfClient, logger, cfg.Engine),
		Log:    logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Volunteer Management API (Vercel)",
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

	r.POST("/admin/login", h.Login)
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/sync", h.TriggerSync)
		admin.GET("/stats", h.GetStats)
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r_req *http.Request) {
	r.ServeHTTP(w, r_req)
}
