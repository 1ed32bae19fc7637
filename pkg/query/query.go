// Package query is the read side: filtered, stably ordered listings over the
// record store. No operation here has side effects.
package query

import (
	"fmt"
	"strings"

	"github.com/communityspring/volunteer-api-go/pkg/database"
	"github.com/communityspring/volunteer-api-go/pkg/models"
	"gorm.io/gorm"
)

type Reader struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

// Opportunities lists opportunities matching the filter, ordered by date
// ascending then id so pagination and rendering are reproducible.
func (r *Reader) Opportunities(f models.ListFilter) ([]database.Opportunity, error) {
	q := r.db.Model(&database.Opportunity{})
	if f.Category != "" {
		q = q.Where("LOWER(category) LIKE ?", contains(f.Category))
	}
	if f.ProgramID != 0 {
		q = q.Where("program_id = ?", f.ProgramID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?",
			contains(f.Search), contains(f.Search))
	}

	var opps []database.Opportunity
	if err := q.Order("date ASC, id ASC").Find(&opps).Error; err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	return opps, nil
}

// Programs lists programs ordered by start date ascending then id.
func (r *Reader) Programs(f models.ListFilter) ([]database.Program, error) {
	q := r.db.Model(&database.Program{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?",
			contains(f.Search), contains(f.Search))
	}

	var programs []database.Program
	if err := q.Order("start_date ASC, id ASC").Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Workshops lists workshops ordered by session date ascending then id.
func (r *Reader) Workshops(f models.ListFilter) ([]database.Workshop, error) {
	q := r.db.Model(&database.Workshop{})
	if f.ProgramID != 0 {
		q = q.Where("program_id = ?", f.ProgramID)
	}
	if f.Search != "" {
		q = q.Where("LOWER(topic) LIKE ? OR LOWER(location) LIKE ?",
			contains(f.Search), contains(f.Search))
	}

	var workshops []database.Workshop
	if err := q.Order("date ASC, id ASC").Find(&workshops).Error; err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, nil
}

func contains(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
