package query

import (
	"testing"
	"time"

	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/communityspring/volunteer-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestReader(t *testing.T) (*Reader, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return New(db), db
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestOpportunities_Filters(t *testing.T) {
	r, db := newTestReader(t)

	progID := uint(1)
	seed := []database.Opportunity{
		{Title: "Coach spring cohort", Category: "Financial Coaching", ProgramID: &progID, Date: date("2026-03-01"), TotalSpots: 4},
		{Title: "Present budgeting", Category: "Workshop Presenting", ProgramID: &progID, Date: date("2026-02-01"), TotalSpots: 1},
		{Title: "Community fair helper", Description: "Outdoor event", Category: "Event Support", Date: date("2026-01-15"), TotalSpots: 10},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	opps, err := r.Opportunities(models.ListFilter{Category: "coaching"})
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "Coach spring cohort", opps[0].Title)

	opps, err = r.Opportunities(models.ListFilter{ProgramID: progID})
	require.NoError(t, err)
	assert.Len(t, opps, 2)

	opps, err = r.Opportunities(models.ListFilter{Search: "OUTDOOR"})
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "Community fair helper", opps[0].Title)
}

func TestOpportunities_StableDateOrder(t *testing.T) {
	r, db := newTestReader(t)

	seed := []database.Opportunity{
		{Title: "march", Date: date("2026-03-01")},
		{Title: "january", Date: date("2026-01-01")},
		{Title: "february", Date: date("2026-02-01")},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	opps, err := r.Opportunities(models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, opps, 3)
	assert.Equal(t, "january", opps[0].Title)
	assert.Equal(t, "february", opps[1].Title)
	assert.Equal(t, "march", opps[2].Title)
}

func TestPrograms_StatusAndSearch(t *testing.T) {
	r, db := newTestReader(t)

	seed := []database.Program{
		{Name: "Money Matters", SalesforceID: "sf-1", Status: database.ProgramActive, StartDate: date("2026-02-01")},
		{Name: "Career Ready", SalesforceID: "sf-2", Status: database.ProgramUpcoming, StartDate: date("2026-01-01")},
		{Name: "Money Basics", SalesforceID: "sf-3", Status: database.ProgramCompleted, StartDate: date("2025-09-01")},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	programs, err := r.Programs(models.ListFilter{Status: database.ProgramActive})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "Money Matters", programs[0].Name)

	programs, err = r.Programs(models.ListFilter{Search: "money"})
	require.NoError(t, err)
	require.Len(t, programs, 2)
	// Start-date ascending.
	assert.Equal(t, "Money Basics", programs[0].Name)
}

func TestWorkshops_ByProgram(t *testing.T) {
	r, db := newTestReader(t)

	seed := []database.Workshop{
		{ProgramID: 1, SalesforceID: "w1", Topic: "Budgeting", Date: date("2026-02-08")},
		{ProgramID: 1, SalesforceID: "w2", Topic: "Credit", Date: date("2026-02-01")},
		{ProgramID: 2, SalesforceID: "w3", Topic: "Resumes", Date: date("2026-02-05")},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	workshops, err := r.Workshops(models.ListFilter{ProgramID: 1})
	require.NoError(t, err)
	require.Len(t, workshops, 2)
	assert.Equal(t, "Credit", workshops[0].Topic)
	assert.Equal(t, "Budgeting", workshops[1].Topic)
}
