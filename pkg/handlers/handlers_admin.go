package handlers

import (
	"errors"
	"net/http"

	"github.com/communityspring/volunteer-api-go/pkg/auth"
	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/communityspring/volunteer-api-go/pkg/salesforce"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// TriggerSync handles POST /admin/sync: a one-way pull from the CRM into the
// local store, run synchronously so the admin sees the outcome.
func (h *Handler) TriggerSync(c *gin.Context) {
	if h.Syncer == nil || !h.Syncer.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "salesforce sync is not configured"})
		return
	}

	summary, err := h.Syncer.SyncPrograms(c.Request.Context())
	if err != nil {
		if errors.Is(err, salesforce.ErrSyncDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.Log.Error("salesforce sync failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "CRM sync failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetStats handles GET /admin/stats with the aggregate numbers the dashboard
// renders.
func (h *Handler) GetStats(c *gin.Context) {
	count := func(model any) int64 {
		var n int64
		if err := h.DB.Model(model).Count(&n).Error; err != nil {
			h.Log.Error("stats: count failed", zap.Error(err))
		}
		return n
	}
	volunteers := count(&database.Volunteer{})
	programs := count(&database.Program{})
	opportunities := count(&database.Opportunity{})
	signups := count(&database.VolunteerSignup{})

	var spots struct {
		Total  int64
		Filled int64
	}
	if err := h.DB.Model(&database.Opportunity{}).
		Select("COALESCE(SUM(total_spots),0) AS total, COALESCE(SUM(filled_spots),0) AS filled").
		Scan(&spots).Error; err != nil {
		h.Log.Error("stats: spot totals failed", zap.Error(err))
	}

	var runs []database.SyncRun
	if err := h.DB.Order("created_at desc").Limit(10).Find(&runs).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error("stats: sync run lookup failed", zap.Error(err))
	}

	fillRate := 0.0
	if spots.Total > 0 {
		fillRate = float64(spots.Filled) / float64(spots.Total)
	}

	c.JSON(http.StatusOK, gin.H{
		"volunteers":    volunteers,
		"programs":      programs,
		"opportunities": opportunities,
		"signups":       signups,
		"spots": gin.H{
			"total":     spots.Total,
			"filled":    spots.Filled,
			"fill_rate": fillRate,
		},
		"recent_syncs": runs,
	})
}
