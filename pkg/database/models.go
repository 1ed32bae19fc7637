package database

import "time"

// Volunteer statuses
const (
	VolunteerPending  = "pending"
	VolunteerActive   = "active"
	VolunteerInactive = "inactive"
)

// Program statuses
const (
	ProgramUpcoming  = "upcoming"
	ProgramActive    = "active"
	ProgramCompleted = "completed"
)

// Volunteer represents the volunteers table
type Volunteer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Status       string    `gorm:"default:pending" json:"status"`
	HoursLogged  float64   `gorm:"default:0" json:"hours_logged"`
	SalesforceID *string   `gorm:"uniqueIndex" json:"salesforce_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Program represents the programs table. Rows are owned by the Salesforce
// sync (upserted by SalesforceID) or admin CRUD.
type Program struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	Description       string     `json:"description"`
	SalesforceID      string     `gorm:"uniqueIndex" json:"salesforce_id"`
	Status            string     `gorm:"default:upcoming" json:"status"`
	Format            string     `json:"format"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	WorkshopDay       string     `json:"workshop_day"`
	WorkshopTime      string     `json:"workshop_time"`
	WorkshopFrequency string     `json:"workshop_frequency"`
	WorkshopCount     int        `json:"workshop_count"`
	NumberOfCoaches   int        `json:"number_of_coaches"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Workshop represents the workshops table, one scheduled session within a
// program. MaxParticipants/CurrentParticipants carry the same counter
// invariant as Opportunity spots.
type Workshop struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	ProgramID           uint       `gorm:"index;not null" json:"program_id"`
	SalesforceID        string     `gorm:"uniqueIndex" json:"salesforce_id"`
	Topic               string     `json:"topic"`
	Format              string     `json:"format"`
	Location            string     `json:"location"`
	Date                *time.Time `json:"date"`
	StartTime           string     `json:"start_time"`
	EndTime             string     `json:"end_time"`
	MaxParticipants     int        `gorm:"default:0" json:"max_participants"`
	CurrentParticipants int        `gorm:"default:0" json:"current_participants"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Opportunity represents the opportunities table. FilledSpots never exceeds
// TotalSpots and never goes below zero; both bounds are enforced by
// conditional updates in the signup engine, not by application-side reads.
type Opportunity struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Category    string     `gorm:"index" json:"category"`
	ProgramID   *uint      `gorm:"index" json:"program_id"`
	WorkshopID  *uint      `gorm:"index" json:"workshop_id"`
	Date        *time.Time `json:"date"`
	TotalSpots  int        `gorm:"default:0" json:"total_spots"`
	FilledSpots int        `gorm:"default:0" json:"filled_spots"`
	Status      string     `gorm:"default:active" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// VolunteerSignup represents the volunteer_signups table. The composite
// unique index is the duplicate-signup backstop: cancellation deletes the
// row, so re-signup after cancel is allowed while double signup is not.
type VolunteerSignup struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VolunteerID   uint      `gorm:"uniqueIndex:idx_signup_vol_opp;not null" json:"volunteer_id"`
	OpportunityID uint      `gorm:"uniqueIndex:idx_signup_vol_opp;not null" json:"opportunity_id"`
	Status        string    `gorm:"default:confirmed" json:"status"`
	HoursWorked   float64   `gorm:"default:0" json:"hours_worked"`
	CreatedAt     time.Time `json:"created_at"`
}

// ParticipantWorkshop represents the participant_workshops table, the
// participant-side analogue of VolunteerSignup against workshop capacity.
type ParticipantWorkshop struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	WorkshopID       uint      `gorm:"uniqueIndex:idx_participant_ws;not null" json:"workshop_id"`
	ParticipantEmail string    `gorm:"uniqueIndex:idx_participant_ws;not null" json:"participant_email"`
	ParticipantName  string    `json:"participant_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// MasterUser represents the master_users table for the admin dashboard login
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// SyncRun represents the sync_runs table, one row per admin-triggered CRM pull
type SyncRun struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	RunID            string    `gorm:"uniqueIndex;not null" json:"run_id"`
	ProgramsSynced   int       `json:"programs_synced"`
	WorkshopsSynced  int       `json:"workshops_synced"`
	OpportunitiesNew int       `json:"opportunities_new"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
