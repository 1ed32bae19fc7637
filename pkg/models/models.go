package models

// SignupRequest is the body for a single opportunity signup
type SignupRequest struct {
	VolunteerID   uint   `json:"volunteer_id" binding:"required"`
	OpportunityID uint   `json:"opportunity_id" binding:"required"`
	Status        string `json:"status"`
}

// BulkProgramRequest signs a volunteer up for every open opportunity of a
// category family under one program
type BulkProgramRequest struct {
	VolunteerID uint   `json:"volunteer_id" binding:"required"`
	ProgramID   uint   `json:"program_id" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

// BulkWorkshopsRequest is the presenter-role fan-out signup
type BulkWorkshopsRequest struct {
	VolunteerID uint   `json:"volunteer_id" binding:"required"`
	WorkshopIDs []uint `json:"workshop_ids" binding:"required,min=1"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// CreateVolunteerRequest is the registration body
type CreateVolunteerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ParticipantRequest registers a program participant for one workshop
type ParticipantRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// ListFilter is the shared query shape for the read-side list endpoints.
// Zero values mean "no constraint".
type ListFilter struct {
	Category  string
	ProgramID uint
	Status    string
	Search    string
}
