package signup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/communityspring/volunteer-api-go/pkg/config"
	"github.com/communityspring/volunteer-api-go/pkg/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PresenterCategory is the label given to auto-provisioned presenting
// opportunities.
const PresenterCategory = "Workshop Presenting"

// Engine is the sole arbiter of spot capacity and the sole mutator of the
// filled-spot counters. All capacity checks go through single-statement
// conditional updates so concurrent signups can never oversell a spot.
type Engine struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Engine
	policies *PolicyTable
}

// New creates an engine with the default category policy table.
func New(db *gorm.DB, log *zap.Logger, cfg config.Engine) *Engine {
	return &Engine{db: db, log: log, cfg: cfg, policies: DefaultPolicyTable()}
}

// Policies exposes the category policy table for read-side callers.
func (e *Engine) Policies() *PolicyTable {
	return e.policies
}

// BulkResult is what the bulk operations return: the signups that actually
// went through, which may be fewer than were attempted.
type BulkResult struct {
	Count   int                        `json:"count"`
	Signups []database.VolunteerSignup `json:"signups"`
}

// ContactInfo carries the optional contact fields a presenter supplies with
// a workshop signup. Non-empty fields overwrite the volunteer's stored
// contact details.
type ContactInfo struct {
	Phone string
	Email string
}

// SignUp registers one volunteer for one opportunity. The capacity check and
// the counter increment are a single conditional UPDATE; zero rows affected
// means the opportunity is full. The signup insert rides in the same
// transaction, with the composite unique index as the duplicate backstop.
func (e *Engine) SignUp(volunteerID, opportunityID uint, status string) (*database.VolunteerSignup, error) {
	if err := e.db.First(&database.Volunteer{}, volunteerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("lookup volunteer: %w", err)
	}
	if err := e.db.First(&database.Opportunity{}, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("lookup opportunity: %w", err)
	}

	var existing database.VolunteerSignup
	err := e.db.Where("volunteer_id = ? AND opportunity_id = ?", volunteerID, opportunityID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadySignedUp
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup signup: %w", err)
	}

	if status == "" {
		status = "confirmed"
	}
	s := &database.VolunteerSignup{
		VolunteerID:   volunteerID,
		OpportunityID: opportunityID,
		Status:        status,
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&database.Opportunity{}).
			Where("id = ? AND filled_spots < total_spots", opportunityID).
			UpdateColumn("filled_spots", gorm.Expr("filled_spots + 1"))
		if res.Error != nil {
			return fmt.Errorf("claim spot: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOpportunityFull
		}
		if err := tx.Create(s).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return ErrAlreadySignedUp
			}
			return fmt.Errorf("insert signup: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CancelSignup removes a volunteer's signup and releases the spot. A missing
// signup is a no-op, reported as false rather than an error. The decrement
// is floored at zero so an externally desynchronized counter can never go
// negative.
func (e *Engine) CancelSignup(volunteerID, opportunityID uint) (bool, error) {
	cancelled := false
	err := e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("volunteer_id = ? AND opportunity_id = ?", volunteerID, opportunityID).
			Delete(&database.VolunteerSignup{})
		if res.Error != nil {
			return fmt.Errorf("delete signup: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		cancelled = true
		dec := tx.Model(&database.Opportunity{}).
			Where("id = ? AND filled_spots > 0", opportunityID).
			UpdateColumn("filled_spots", gorm.Expr("filled_spots - 1"))
		if dec.Error != nil {
			return fmt.Errorf("release spot: %w", dec.Error)
		}
		return nil
	})
	return cancelled, err
}

// BulkSignUpProgram signs a volunteer up for every open opportunity under a
// program whose category falls in the same family as the requested one.
// Opportunities the volunteer already holds are skipped, so re-invoking
// fills only the gap. Per-item failures are isolated: the loop logs and
// continues, and the result reports what actually succeeded.
func (e *Engine) BulkSignUpProgram(volunteerID, programID uint, category string) (*BulkResult, error) {
	if err := e.db.First(&database.Volunteer{}, volunteerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("lookup volunteer: %w", err)
	}
	if err := e.db.First(&database.Program{}, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("lookup program: %w", err)
	}

	candidates, err := e.familyOpportunities(programID, category)
	if err != nil {
		return nil, err
	}

	held, err := e.heldOpportunities(volunteerID)
	if err != nil {
		return nil, err
	}

	var open []database.Opportunity
	for _, opp := range candidates {
		if held[opp.ID] {
			continue
		}
		if opp.FilledSpots >= opp.TotalSpots {
			continue
		}
		open = append(open, opp)
	}
	if len(open) == 0 {
		return nil, ErrNoneAvailable
	}

	res := &BulkResult{}
	for _, opp := range open {
		s, err := e.SignUp(volunteerID, opp.ID, "")
		if err != nil {
			e.log.Warn("bulk program signup: opportunity skipped",
				zap.Uint("volunteer_id", volunteerID),
				zap.Uint("opportunity_id", opp.ID),
				zap.Error(err))
			continue
		}
		res.Signups = append(res.Signups, *s)
	}
	res.Count = len(res.Signups)
	return res, nil
}

// BulkSignUpWorkshops is the presenter path: each workshop gets its
// presenting opportunity found or provisioned, then the volunteer is signed
// up for each with the same per-item isolation as the program bulk. A single
// workshop behaves exactly like a single-opportunity signup, surfacing its
// error directly.
func (e *Engine) BulkSignUpWorkshops(volunteerID uint, workshopIDs []uint, contact ContactInfo) (*BulkResult, error) {
	if len(workshopIDs) > e.cfg.MaxWorkshopBatch {
		return nil, ErrBatchTooLarge
	}

	var vol database.Volunteer
	if err := e.db.First(&vol, volunteerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("lookup volunteer: %w", err)
	}

	if contact.Phone != "" && contact.Phone != vol.Phone {
		if err := e.db.Model(&vol).Update("phone", contact.Phone).Error; err != nil {
			return nil, fmt.Errorf("update contact info: %w", err)
		}
	}
	if email := strings.ToLower(strings.TrimSpace(contact.Email)); email != "" && email != vol.Email {
		if err := e.db.Model(&vol).Update("email", email).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return nil, ErrEmailInUse
			}
			return nil, fmt.Errorf("update contact info: %w", err)
		}
	}

	res := &BulkResult{}
	for _, wsID := range workshopIDs {
		s, err := e.signUpForWorkshop(volunteerID, wsID)
		if err != nil {
			if len(workshopIDs) == 1 {
				return nil, err
			}
			e.log.Warn("bulk workshop signup: workshop skipped",
				zap.Uint("volunteer_id", volunteerID),
				zap.Uint("workshop_id", wsID),
				zap.Error(err))
			continue
		}
		res.Signups = append(res.Signups, *s)
	}
	res.Count = len(res.Signups)
	if res.Count == 0 {
		return nil, ErrNoneAvailable
	}
	return res, nil
}

func (e *Engine) signUpForWorkshop(volunteerID, workshopID uint) (*database.VolunteerSignup, error) {
	opp, err := e.presentingOpportunity(workshopID)
	if err != nil {
		return nil, err
	}
	return e.SignUp(volunteerID, opp.ID, "")
}

// presentingOpportunity returns the workshop's presenting opportunity,
// creating it on first use with the configured presenter capacity.
func (e *Engine) presentingOpportunity(workshopID uint) (*database.Opportunity, error) {
	var ws database.Workshop
	if err := e.db.First(&ws, workshopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("lookup workshop: %w", err)
	}

	opp := database.Opportunity{
		Title:      fmt.Sprintf("Present: %s", ws.Topic),
		Category:   PresenterCategory,
		ProgramID:  &ws.ProgramID,
		WorkshopID: &ws.ID,
		Date:       ws.Date,
		TotalSpots: e.cfg.PresenterSpots,
	}
	err := e.db.Where("workshop_id = ? AND category = ?", workshopID, PresenterCategory).
		FirstOrCreate(&opp).Error
	if err != nil {
		return nil, fmt.Errorf("provision presenting opportunity: %w", err)
	}
	return &opp, nil
}

// RegisterParticipant enrolls a program participant in one workshop against
// the workshop's own participant capacity.
func (e *Engine) RegisterParticipant(workshopID uint, name, email string) (*database.ParticipantWorkshop, error) {
	if err := e.db.First(&database.Workshop{}, workshopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("lookup workshop: %w", err)
	}

	normalized := strings.ToLower(email)
	var existing database.ParticipantWorkshop
	err := e.db.Where("workshop_id = ? AND participant_email = ?", workshopID, normalized).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadySignedUp
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup participant: %w", err)
	}

	p := &database.ParticipantWorkshop{
		WorkshopID:       workshopID,
		ParticipantEmail: normalized,
		ParticipantName:  name,
	}
	err = e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&database.Workshop{}).
			Where("id = ? AND current_participants < max_participants", workshopID).
			UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
		if res.Error != nil {
			return fmt.Errorf("claim participant spot: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrWorkshopFull
		}
		if err := tx.Create(p).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return ErrAlreadySignedUp
			}
			return fmt.Errorf("insert participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProgramStatus is the program-level signup view for one category family.
type ProgramStatus struct {
	Category       string `json:"category"`
	Capacity       string `json:"capacity"`
	TotalSpots     int    `json:"total_spots"`
	FilledSpots    int    `json:"filled_spots"`
	SignedUpAll    bool   `json:"signed_up_all"`
	SignedUpAny    bool   `json:"signed_up_any"`
	OpportunityIDs []uint `json:"opportunity_ids"`
}

// ProgramSignupStatus reports how a volunteer stands against a program's
// category family. Under the program-level regime the first opportunity's
// spots represent the whole program's capacity and "signed up" means holding
// signups for every opportunity in the family.
func (e *Engine) ProgramSignupStatus(volunteerID, programID uint, category string) (*ProgramStatus, error) {
	if err := e.db.First(&database.Program{}, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("lookup program: %w", err)
	}

	family := e.policies.Classify(category)
	candidates, err := e.familyOpportunities(programID, category)
	if err != nil {
		return nil, err
	}

	held, err := e.heldOpportunities(volunteerID)
	if err != nil {
		return nil, err
	}

	status := &ProgramStatus{
		Category: family.Name,
		Capacity: family.Regime.String(),
	}
	heldCount := 0
	for _, opp := range candidates {
		status.OpportunityIDs = append(status.OpportunityIDs, opp.ID)
		if held[opp.ID] {
			heldCount++
		}
		if family.Regime == PerOpportunity {
			status.TotalSpots += opp.TotalSpots
			status.FilledSpots += opp.FilledSpots
		}
	}
	if family.Regime == ProgramLevel && len(candidates) > 0 {
		// First opportunity stands in for the whole program's capacity.
		status.TotalSpots = candidates[0].TotalSpots
		status.FilledSpots = candidates[0].FilledSpots
	}
	status.SignedUpAny = heldCount > 0
	status.SignedUpAll = len(candidates) > 0 && heldCount == len(candidates)
	return status, nil
}

// familyOpportunities lists a program's opportunities whose category falls
// in the same family as the given one, in stable id order.
func (e *Engine) familyOpportunities(programID uint, category string) ([]database.Opportunity, error) {
	var opps []database.Opportunity
	if err := e.db.Where("program_id = ?", programID).Order("id").Find(&opps).Error; err != nil {
		return nil, fmt.Errorf("list program opportunities: %w", err)
	}
	var out []database.Opportunity
	for _, opp := range opps {
		if e.policies.SameFamily(opp.Category, category) {
			out = append(out, opp)
		}
	}
	return out, nil
}

func (e *Engine) heldOpportunities(volunteerID uint) (map[uint]bool, error) {
	var signups []database.VolunteerSignup
	if err := e.db.Where("volunteer_id = ?", volunteerID).Find(&signups).Error; err != nil {
		return nil, fmt.Errorf("list signups: %w", err)
	}
	held := make(map[uint]bool, len(signups))
	for _, s := range signups {
		held[s.OpportunityID] = true
	}
	return held, nil
}
