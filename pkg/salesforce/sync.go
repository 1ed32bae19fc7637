package salesforce

import (
	"context"
	"errors"
	"fmt"

	"github.com/communityspring/volunteer-api-go/pkg/config"
	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CoachCategory is the label given to coach opportunities provisioned from
// the CRM's coach-capacity hint.
const CoachCategory = "Financial Coaching"

// FIELDS(CUSTOM) pulls whatever custom fields the org actually defines, so
// the pull keeps working when the CRM schema drifts. SOQL requires a bounded
// query with FIELDS().
const (
	programSOQL  = "SELECT FIELDS(CUSTOM), Id, Name FROM Program__c LIMIT 200"
	workshopSOQL = "SELECT FIELDS(CUSTOM), Id, Name FROM Workshop__c LIMIT 200"
)

// ErrSyncDisabled is returned when no CRM credentials are configured.
var ErrSyncDisabled = errors.New("salesforce sync is not configured")

// Syncer pulls Program/Workshop records from the CRM into the local store
// and pushes locally created volunteers back. Pulls run only when an admin
// triggers them; pushes are fire-and-forget.
type Syncer struct {
	db     *gorm.DB
	client *Client
	log    *zap.Logger
	cfg    config.Engine
}

func NewSyncer(db *gorm.DB, client *Client, log *zap.Logger, cfg config.Engine) *Syncer {
	return &Syncer{db: db, client: client, log: log, cfg: cfg}
}

// Enabled reports whether CRM credentials were configured.
func (s *Syncer) Enabled() bool {
	return s.client != nil
}

// RunSummary describes one sync run.
type RunSummary struct {
	RunID            string `json:"run_id"`
	Programs         int    `json:"programs"`
	Workshops        int    `json:"workshops"`
	NewOpportunities int    `json:"new_opportunities"`
}

// SyncPrograms pulls programs and workshops, upserting by Salesforce id so
// the operation is idempotent per external record. Coach opportunities are
// provisioned once per program from the NumberOfCoaches hint.
func (s *Syncer) SyncPrograms(ctx context.Context) (*RunSummary, error) {
	if !s.Enabled() {
		return nil, ErrSyncDisabled
	}

	summary := &RunSummary{RunID: uuid.New().String()}
	s.log.Info("salesforce sync started", zap.String("run_id", summary.RunID))

	programRecords, err := s.client.Query(ctx, programSOQL)
	if err != nil {
		s.recordRun(summary, err)
		return nil, fmt.Errorf("pull programs: %w", err)
	}

	programsByRef := make(map[string]uint)
	for _, rec := range programRecords {
		mapped := MapProgram(rec)
		if mapped.SalesforceID == "" {
			s.log.Warn("sync: program record without id skipped", zap.String("run_id", summary.RunID))
			continue
		}
		prog, err := s.upsertProgram(mapped)
		if err != nil {
			s.log.Warn("sync: program upsert failed",
				zap.String("salesforce_id", mapped.SalesforceID), zap.Error(err))
			continue
		}
		programsByRef[prog.SalesforceID] = prog.ID
		summary.Programs++

		created, err := s.provisionCoachOpportunity(prog)
		if err != nil {
			s.log.Warn("sync: coach opportunity provisioning failed",
				zap.Uint("program_id", prog.ID), zap.Error(err))
		} else if created {
			summary.NewOpportunities++
		}
	}

	workshopRecords, err := s.client.Query(ctx, workshopSOQL)
	if err != nil {
		s.recordRun(summary, err)
		return nil, fmt.Errorf("pull workshops: %w", err)
	}
	for _, rec := range workshopRecords {
		mapped, programRef := MapWorkshop(rec)
		if mapped.SalesforceID == "" {
			continue
		}
		programID, ok := programsByRef[programRef]
		if !ok {
			// Program may have been synced in an earlier run.
			var prog database.Program
			if err := s.db.Where("salesforce_id = ?", programRef).First(&prog).Error; err != nil {
				s.log.Warn("sync: workshop references unknown program",
					zap.String("salesforce_id", mapped.SalesforceID),
					zap.String("program_ref", programRef))
				continue
			}
			programID = prog.ID
		}
		mapped.ProgramID = programID
		if err := s.upsertWorkshop(mapped); err != nil {
			s.log.Warn("sync: workshop upsert failed",
				zap.String("salesforce_id", mapped.SalesforceID), zap.Error(err))
			continue
		}
		summary.Workshops++
	}

	s.recordRun(summary, nil)
	s.log.Info("salesforce sync finished",
		zap.String("run_id", summary.RunID),
		zap.Int("programs", summary.Programs),
		zap.Int("workshops", summary.Workshops))
	return summary, nil
}

func (s *Syncer) upsertProgram(mapped database.Program) (*database.Program, error) {
	var existing database.Program
	err := s.db.Where("salesforce_id = ?", mapped.SalesforceID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&mapped).Error; err != nil {
			return nil, err
		}
		return &mapped, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":               mapped.Name,
		"description":        mapped.Description,
		"status":             mapped.Status,
		"format":             mapped.Format,
		"start_date":         mapped.StartDate,
		"end_date":           mapped.EndDate,
		"workshop_day":       mapped.WorkshopDay,
		"workshop_time":      mapped.WorkshopTime,
		"workshop_frequency": mapped.WorkshopFrequency,
		"workshop_count":     mapped.WorkshopCount,
		"number_of_coaches":  mapped.NumberOfCoaches,
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Syncer) upsertWorkshop(mapped database.Workshop) error {
	var existing database.Workshop
	err := s.db.Where("salesforce_id = ?", mapped.SalesforceID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&mapped).Error
	}
	if err != nil {
		return err
	}

	// Never touch current_participants here: the counter belongs to the
	// signup engine.
	return s.db.Model(&existing).Updates(map[string]any{
		"program_id":       mapped.ProgramID,
		"topic":            mapped.Topic,
		"format":           mapped.Format,
		"location":         mapped.Location,
		"date":             mapped.Date,
		"start_time":       mapped.StartTime,
		"end_time":         mapped.EndTime,
		"max_participants": mapped.MaxParticipants,
	}).Error
}

// provisionCoachOpportunity creates the program's coach opportunity on first
// sight. TotalSpots comes from the CRM hint, falling back to the configured
// default when the hint is absent.
func (s *Syncer) provisionCoachOpportunity(prog *database.Program) (bool, error) {
	spots := prog.NumberOfCoaches
	if spots <= 0 {
		spots = s.cfg.DefaultTotalSpots
	}

	opp := database.Opportunity{
		Title:      fmt.Sprintf("%s Coach", prog.Name),
		Category:   CoachCategory,
		ProgramID:  &prog.ID,
		Date:       prog.StartDate,
		TotalSpots: spots,
	}
	res := s.db.Where("program_id = ? AND category = ?", prog.ID, CoachCategory).
		FirstOrCreate(&opp)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PushVolunteer writes a locally created volunteer back to the CRM and fills
// in the local SalesforceID on success. Callers invoke it fire-and-forget:
// any failure is logged here and never propagates to the request that
// created the volunteer.
func (s *Syncer) PushVolunteer(ctx context.Context, volunteerID uint) {
	if !s.Enabled() {
		return
	}

	var vol database.Volunteer
	if err := s.db.First(&vol, volunteerID).Error; err != nil {
		s.log.Error("volunteer push: load failed",
			zap.Uint("volunteer_id", volunteerID), zap.Error(err))
		return
	}
	if vol.SalesforceID != nil {
		return
	}

	sfID, err := s.client.CreateObject(ctx, "Contact", VolunteerFields(vol))
	if err != nil {
		s.log.Error("volunteer push: CRM create failed",
			zap.Uint("volunteer_id", volunteerID), zap.Error(err))
		return
	}

	if err := s.db.Model(&vol).Update("salesforce_id", sfID).Error; err != nil {
		s.log.Error("volunteer push: local update failed",
			zap.Uint("volunteer_id", volunteerID), zap.Error(err))
	}
}

func (s *Syncer) recordRun(summary *RunSummary, runErr error) {
	run := database.SyncRun{
		RunID:            summary.RunID,
		ProgramsSynced:   summary.Programs,
		WorkshopsSynced:  summary.Workshops,
		OpportunitiesNew: summary.NewOpportunities,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := s.db.Create(&run).Error; err != nil {
		s.log.Error("sync: run record failed", zap.Error(err))
	}
}
