package salesforce

import (
	"strings"
	"time"

	"github.com/communityspring/volunteer-api-go/pkg/database"
)

// The CRM schema is not stable: the same logical field shows up under
// different API names depending on org configuration and package version.
// Each mapper reads a logical field from a list of candidate names, first
// hit wins. This file is the only place allowed to guess at external schema.

// MapProgram translates a raw CRM program record into the local entity.
func MapProgram(rec Record) database.Program {
	p := database.Program{
		SalesforceID:      stringField(rec, "Id"),
		Name:              stringField(rec, "Name", "Program_Name__c"),
		Description:       stringField(rec, "Description__c", "Program_Description__c"),
		Format:            stringField(rec, "Format__c", "Program_Format__c"),
		WorkshopDay:       stringField(rec, "Workshop_Day__c", "Day_of_Week__c"),
		WorkshopTime:      stringField(rec, "Workshop_Time__c", "Session_Time__c"),
		WorkshopFrequency: stringField(rec, "Workshop_Frequency__c", "Frequency__c"),
		WorkshopCount:     intField(rec, "Number_of_Workshops__c", "Workshop_Count__c"),
		NumberOfCoaches:   intField(rec, "Number_of_Coaches__c", "Coaches_Needed__c"),
	}
	p.StartDate = dateField(rec, "Start_Date__c", "Program_Start_Date__c")
	p.EndDate = dateField(rec, "End_Date__c", "Program_End_Date__c")
	p.Status = mapProgramStatus(stringField(rec, "Status__c", "Program_Status__c"), p.StartDate, p.EndDate)
	return p
}

// MapWorkshop translates a raw CRM workshop record. The returned programRef
// is the CRM id of the owning program, resolved to a local row by the
// syncer.
func MapWorkshop(rec Record) (ws database.Workshop, programRef string) {
	ws = database.Workshop{
		SalesforceID:    stringField(rec, "Id"),
		Topic:           stringField(rec, "Topic__c", "Workshop_Type__c", "Type__c", "Name"),
		Format:          stringField(rec, "Format__c", "Workshop_Format__c"),
		Location:        stringField(rec, "Location__c", "Venue__c"),
		StartTime:       stringField(rec, "Start_Time__c", "Session_Start_Time__c"),
		EndTime:         stringField(rec, "End_Time__c", "Session_End_Time__c"),
		MaxParticipants: intField(rec, "Max_Participants__c", "Capacity__c"),
	}
	ws.Date = dateField(rec, "Date__c", "Session_Date__c", "Workshop_Date__c")
	programRef = stringField(rec, "Program__c", "Program_Ref__c", "Related_Program__c")
	return ws, programRef
}

// VolunteerFields builds the CRM contact payload for the write-back path.
func VolunteerFields(v database.Volunteer) map[string]any {
	return map[string]any{
		"FirstName": v.FirstName,
		"LastName":  orDefault(v.LastName, v.FirstName),
		"Email":     v.Email,
		"Phone":     v.Phone,
	}
}

func mapProgramStatus(raw string, start, end *time.Time) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "in progress", "in session":
		return database.ProgramActive
	case "completed", "closed", "finished":
		return database.ProgramCompleted
	case "upcoming", "planned", "scheduled":
		return database.ProgramUpcoming
	}
	// No usable status field: derive from dates.
	now := time.Now()
	if end != nil && end.Before(now) {
		return database.ProgramCompleted
	}
	if start != nil && start.After(now) {
		return database.ProgramUpcoming
	}
	return database.ProgramActive
}

func stringField(rec Record, names ...string) string {
	for _, n := range names {
		if v, ok := rec[n]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func intField(rec Record, names ...string) int {
	for _, n := range names {
		v, ok := rec[n]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			return int(x)
		case int:
			return x
		}
	}
	return 0
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000-0700"}

func dateField(rec Record, names ...string) *time.Time {
	raw := stringField(rec, names...)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
