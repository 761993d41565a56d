package employment

import (
	"strings"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
)

// JobCategory classifies jobs (e.g. "Volunteer", "Part-time")
type JobCategory struct {
	shared.BaseRecord
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (JobCategory) TableName() string {
	return "job_categories"
}

// NewJobCategory creates a validated job category
func NewJobCategory(name, description string) (*JobCategory, error) {
	jc := &JobCategory{Name: strings.TrimSpace(name), Description: description}
	if err := jc.Validate(); err != nil {
		return nil, err
	}
	return jc, nil
}

// Validate checks the job category invariants
func (jc *JobCategory) Validate() error {
	v := &shared.ValidationError{}
	if jc.Name == "" {
		v.Add("name", "is required")
	} else if utf8.RuneCountInString(jc.Name) > 100 {
		v.Add("name", "must be at most 100 characters")
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (jc *JobCategory) MutableColumns() map[string]any {
	return map[string]any{
		"name":        jc.Name,
		"description": jc.Description,
	}
}
