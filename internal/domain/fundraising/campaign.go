package fundraising

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Campaign is a fundraising drive that donations are made towards
type Campaign struct {
	shared.BaseRecord
	Name        string          `gorm:"type:varchar(150);not null"`
	Description string          `gorm:"type:text"`
	StartDate   *time.Time
	EndDate     *time.Time
	Goal        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Campaign) TableName() string {
	return "campaigns"
}

// Validate checks the campaign invariants
func (c *Campaign) Validate() error {
	c.Name = strings.TrimSpace(c.Name)

	v := &shared.ValidationError{}
	if c.Name == "" {
		v.Add("name", "is required")
	} else if utf8.RuneCountInString(c.Name) > 150 {
		v.Add("name", "must be at most 150 characters")
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		v.Add("endDate", "must not be before startDate")
	}
	if c.Goal.IsNegative() {
		v.Add("goal", "must not be negative")
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (c *Campaign) MutableColumns() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"start_date":  c.StartDate,
		"end_date":    c.EndDate,
		"goal":        c.Goal,
	}
}
