package salesforce

import (
	"testing"

	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProgram_PrimaryFieldNames(t *testing.T) {
	rec := Record{
		"Id":                    "a01000000000001",
		"Name":                  "Money Matters",
		"Status__c":             "Active",
		"Format__c":             "virtual",
		"Start_Date__c":         "2026-03-01",
		"End_Date__c":           "2026-05-01",
		"Workshop_Day__c":       "Tuesday",
		"Number_of_Workshops__c": float64(8),
		"Number_of_Coaches__c":  float64(4),
	}

	p := MapProgram(rec)
	assert.Equal(t, "a01000000000001", p.SalesforceID)
	assert.Equal(t, "Money Matters", p.Name)
	assert.Equal(t, database.ProgramActive, p.Status)
	assert.Equal(t, "Tuesday", p.WorkshopDay)
	assert.Equal(t, 8, p.WorkshopCount)
	assert.Equal(t, 4, p.NumberOfCoaches)
	require.NotNil(t, p.StartDate)
	assert.Equal(t, "2026-03-01", p.StartDate.Format("2006-01-02"))
}

func TestMapProgram_DriftedFieldNames(t *testing.T) {
	// Same logical record under the alternate org schema.
	rec := Record{
		"Id":                     "a01000000000002",
		"Program_Name__c":        "Career Ready",
		"Program_Status__c":      "Planned",
		"Program_Start_Date__c":  "2026-06-01",
		"Day_of_Week__c":         "Thursday",
		"Workshop_Count__c":      float64(6),
		"Coaches_Needed__c":      float64(3),
	}

	p := MapProgram(rec)
	assert.Equal(t, "Career Ready", p.Name)
	assert.Equal(t, database.ProgramUpcoming, p.Status)
	assert.Equal(t, "Thursday", p.WorkshopDay)
	assert.Equal(t, 6, p.WorkshopCount)
	assert.Equal(t, 3, p.NumberOfCoaches)
}

func TestMapProgram_StatusDerivedFromDates(t *testing.T) {
	past := MapProgram(Record{
		"Id":           "a01",
		"Name":         "Old",
		"End_Date__c":  "2020-01-01",
	})
	assert.Equal(t, database.ProgramCompleted, past.Status)

	future := MapProgram(Record{
		"Id":            "a02",
		"Name":          "New",
		"Start_Date__c": "2999-01-01",
	})
	assert.Equal(t, database.ProgramUpcoming, future.Status)
}

func TestMapWorkshop(t *testing.T) {
	rec := Record{
		"Id":                  "a02000000000001",
		"Workshop_Type__c":    "Budgeting Basics",
		"Session_Date__c":     "2026-03-10",
		"Start_Time__c":       "18:00",
		"Venue__c":            "Community Center",
		"Capacity__c":         float64(25),
		"Related_Program__c":  "a01000000000001",
	}

	ws, programRef := MapWorkshop(rec)
	assert.Equal(t, "a02000000000001", ws.SalesforceID)
	assert.Equal(t, "Budgeting Basics", ws.Topic)
	assert.Equal(t, "Community Center", ws.Location)
	assert.Equal(t, 25, ws.MaxParticipants)
	assert.Equal(t, "a01000000000001", programRef)
	require.NotNil(t, ws.Date)
}

func TestVolunteerFields(t *testing.T) {
	fields := VolunteerFields(database.Volunteer{
		Email:     "pat@example.org",
		FirstName: "Pat",
	})
	// Salesforce requires LastName on Contact; fall back to the first name.
	assert.Equal(t, "Pat", fields["LastName"])
	assert.Equal(t, "pat@example.org", fields["Email"])
}
