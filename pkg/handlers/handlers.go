package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/communityspring/volunteer-api-go/pkg/auth"
	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/communityspring/volunteer-api-go/pkg/models"
	"github.com/communityspring/volunteer-api-go/pkg/query"
	"github.com/communityspring/volunteer-api-go/pkg/salesforce"
	"github.com/communityspring/volunteer-api-go/pkg/signup"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB     *gorm.DB
	Engine *signup.Engine
	Reader *query.Reader
	Auth   *auth.Service
	Syncer *salesforce.Syncer
	Log    *zap.Logger
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// engineError maps engine errors onto the response taxonomy: 404 for missing
// entities, 400 for user-actionable rejections, 500 for everything else.
// Business rejections always carry a readable message so the UI can say why.
func (h *Handler) engineError(c *gin.Context, err error) {
	switch {
	case signup.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case signup.IsUserError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Log.Error("signup operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// CreateSignup handles POST /signups
func (h *Handler) CreateSignup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.Engine.SignUp(req.VolunteerID, req.OpportunityID, req.Status)
	if err != nil {
		h.engineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// BulkProgramSignup handles POST /signups/bulk-program
func (h *Handler) BulkProgramSignup(c *gin.Context) {
	var req models.BulkProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Engine.BulkSignUpProgram(req.VolunteerID, req.ProgramID, req.Category)
	if err != nil {
		h.engineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// BulkWorkshopsSignup handles POST /signups/bulk-workshops
func (h *Handler) BulkWorkshopsSignup(c *gin.Context) {
	var req models.BulkWorkshopsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Engine.BulkSignUpWorkshops(req.VolunteerID, req.WorkshopIDs, signup.ContactInfo{
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		h.engineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// CancelSignup handles DELETE /signups/:volunteerId/:opportunityId
func (h *Handler) CancelSignup(c *gin.Context) {
	volunteerID, ok := uintParam(c, "volunteerId")
	if !ok {
		return
	}
	opportunityID, ok := uintParam(c, "opportunityId")
	if !ok {
		return
	}

	cancelled, err := h.Engine.CancelSignup(volunteerID, opportunityID)
	if err != nil {
		h.engineError(c, err)
		return
	}
	if !cancelled {
		c.JSON(http.StatusNotFound, gin.H{"error": "signup not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateVolunteer handles POST /volunteers. The CRM write-back runs
// fire-and-forget: its failure never fails this request.
func (h *Handler) CreateVolunteer(c *gin.Context) {
	var req models.CreateVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vol := database.Volunteer{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Status:    database.VolunteerPending,
	}
	if err := h.DB.Create(&vol).Error; err != nil {
		if database.IsDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		h.Log.Error("create volunteer failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if h.Syncer != nil && h.Syncer.Enabled() {
		go h.Syncer.PushVolunteer(context.Background(), vol.ID)
	}

	c.JSON(http.StatusCreated, vol)
}

// RegisterParticipant handles POST /workshops/:id/participants
func (h *Handler) RegisterParticipant(c *gin.Context) {
	workshopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req models.ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Engine.RegisterParticipant(workshopID, req.Name, req.Email)
	if err != nil {
		h.engineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ProgramSignupStatus handles GET /programs/:id/signup-status
func (h *Handler) ProgramSignupStatus(c *gin.Context) {
	programID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	volunteerID, err := strconv.ParseUint(c.Query("volunteerId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "volunteerId query parameter is required"})
		return
	}
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category query parameter is required"})
		return
	}

	status, sErr := h.Engine.ProgramSignupStatus(uint(volunteerID), programID, category)
	if sErr != nil {
		h.engineError(c, sErr)
		return
	}
	c.JSON(http.StatusOK, status)
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
