package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/communityspring/volunteer-api-go/pkg/auth"
	"github.com/communityspring/volunteer-api-go/pkg/config"
	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/communityspring/volunteer-api-go/pkg/query"
	"github.com/communityspring/volunteer-api-go/pkg/salesforce"
	"github.com/communityspring/volunteer-api-go/pkg/signup"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := config.Engine{DefaultTotalSpots: 20, PresenterSpots: 1, MaxWorkshopBatch: 10}
	log := zap.NewNop()
	h := &Handler{
		DB:     db,
		Engine: signup.New(db, log, cfg),
		Reader: query.New(db),
		Auth:   auth.New("test-secret"),
		Syncer: salesforce.NewSyncer(db, nil, log, cfg),
		Log:    log,
	}

	r := gin.New()
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
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedVolunteerAndOpportunity(t *testing.T, db *gorm.DB, spots int) (database.Volunteer, database.Opportunity) {
	t.Helper()
	v := database.Volunteer{Email: "pat@example.org", FirstName: "Pat", Status: database.VolunteerActive}
	require.NoError(t, db.Create(&v).Error)
	o := database.Opportunity{Title: "Helper", Category: "Event Support", TotalSpots: spots}
	require.NoError(t, db.Create(&o).Error)
	return v, o
}

func TestCreateSignupEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	v, o := seedVolunteerAndOpportunity(t, db, 2)

	w := doJSON(t, r, http.MethodPost, "/signups", gin.H{
		"volunteer_id":   v.ID,
		"opportunity_id": o.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var s database.VolunteerSignup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, v.ID, s.VolunteerID)
}

func TestCreateSignupEndpoint_NotFound(t *testing.T) {
	r, db := newTestRouter(t)
	v, _ := seedVolunteerAndOpportunity(t, db, 2)

	w := doJSON(t, r, http.MethodPost, "/signups", gin.H{
		"volunteer_id":   v.ID,
		"opportunity_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestCreateSignupEndpoint_FullAndDuplicate(t *testing.T) {
	r, db := newTestRouter(t)
	v, o := seedVolunteerAndOpportunity(t, db, 1)
	other := database.Volunteer{Email: "sam@example.org", FirstName: "Sam"}
	require.NoError(t, db.Create(&other).Error)

	w := doJSON(t, r, http.MethodPost, "/signups", gin.H{"volunteer_id": v.ID, "opportunity_id": o.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	// Same volunteer again: duplicate.
	w = doJSON(t, r, http.MethodPost, "/signups", gin.H{"volunteer_id": v.ID, "opportunity_id": o.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already signed up")

	// Different volunteer: full.
	w = doJSON(t, r, http.MethodPost, "/signups", gin.H{"volunteer_id": other.ID, "opportunity_id": o.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "full")
}

func TestCancelSignupEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	v, o := seedVolunteerAndOpportunity(t, db, 1)

	w := doJSON(t, r, http.MethodPost, "/signups", gin.H{"volunteer_id": v.ID, "opportunity_id": o.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/signups/%d/%d", v.ID, o.ID)
	w = doJSON(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Cancelling a signup that no longer exists is a 404, not a 500.
	w = doJSON(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/signups/abc/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkProgramEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	v, _ := seedVolunteerAndOpportunity(t, db, 1)
	prog := database.Program{Name: "Money Matters", SalesforceID: "sf-1"}
	require.NoError(t, db.Create(&prog).Error)
	for i := 0; i < 2; i++ {
		o := database.Opportunity{
			Title:      fmt.Sprintf("Coach %d", i),
			Category:   "Financial Coaching",
			ProgramID:  &prog.ID,
			TotalSpots: 3,
		}
		require.NoError(t, db.Create(&o).Error)
	}

	w := doJSON(t, r, http.MethodPost, "/signups/bulk-program", gin.H{
		"volunteer_id": v.ID,
		"program_id":   prog.ID,
		"category":     "Financial Coaching",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var res signup.BulkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)

	// Re-invoking with nothing left to add is a 400.
	w = doJSON(t, r, http.MethodPost, "/signups/bulk-program", gin.H{
		"volunteer_id": v.ID,
		"program_id":   prog.ID,
		"category":     "Financial Coaching",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOpportunitiesEndpoint_BadQuery(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/opportunities?programId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid programId")
}

func TestCreateVolunteerEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/volunteers", gin.H{
		"email":      "new@example.org",
		"first_name": "New",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate email is a validation failure, not a server error.
	w = doJSON(t, r, http.MethodPost, "/volunteers", gin.H{
		"email":      "new@example.org",
		"first_name": "Again",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")

	// Malformed email rejected by binding.
	w = doJSON(t, r, http.MethodPost, "/volunteers", gin.H{
		"email":      "not-an-email",
		"first_name": "Bad",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminFlow(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, auth.EnsureAdminExists(db, "admin", "hunter22"))

	// No token: rejected.
	w := doJSON(t, r, http.MethodGet, "/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/admin/login", gin.H{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/admin/login", gin.H{
		"username": "admin",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	w = doJSON(t, r, http.MethodPost, "/volunteers", gin.H{
		"email":      "stats@example.org",
		"first_name": "Stats",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Volunteers int64 `json:"volunteers"`
		Signups    int64 `json:"signups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Volunteers)
	assert.Equal(t, int64(0), stats.Signups)

	// Sync trigger with no CRM configured reports service unavailable.
	req = httptest.NewRequest(http.MethodPost, "/admin/sync", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProgramSignupStatusEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	v, _ := seedVolunteerAndOpportunity(t, db, 1)
	prog := database.Program{Name: "Money Matters", SalesforceID: "sf-1"}
	require.NoError(t, db.Create(&prog).Error)
	o := database.Opportunity{Title: "Coach", Category: "Financial Coaching", ProgramID: &prog.ID, TotalSpots: 4}
	require.NoError(t, db.Create(&o).Error)

	w := doJSON(t, r, http.MethodPost, "/signups", gin.H{"volunteer_id": v.ID, "opportunity_id": o.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/programs/%d/signup-status?volunteerId=%d&category=Financial+Coaching", prog.ID, v.ID)
	w = doJSON(t, r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status signup.ProgramStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.SignedUpAll)
	assert.Equal(t, 4, status.TotalSpots)
	assert.Equal(t, 1, status.FilledSpots)

	// Missing query parameters are a 400.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/programs/%d/signup-status", prog.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterParticipantEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	ws := database.Workshop{ProgramID: 1, SalesforceID: "w1", Topic: "Budgeting", MaxParticipants: 1}
	require.NoError(t, db.Create(&ws).Error)

	path := fmt.Sprintf("/workshops/%d/participants", ws.ID)
	w := doJSON(t, r, http.MethodPost, path, gin.H{"name": "Pat", "email": "pat@example.org"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, path, gin.H{"name": "Sam", "email": "sam@example.org"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "full")
}
