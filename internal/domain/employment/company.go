package employment

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
)

// Company posts jobs and can sponsor donations
type Company struct {
	shared.BaseRecord
	Name        string `gorm:"type:varchar(150);not null"`
	Description string `gorm:"type:text"`
	Website     string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a validated company
func NewCompany(name, description, website string) (*Company, error) {
	c := &Company{
		Name:        strings.TrimSpace(name),
		Description: description,
		Website:     strings.TrimSpace(website),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the company invariants
func (c *Company) Validate() error {
	v := &shared.ValidationError{}
	if c.Name == "" {
		v.Add("name", "is required")
	} else if utf8.RuneCountInString(c.Name) > 150 {
		v.Add("name", "must be at most 150 characters")
	}
	if c.Website != "" {
		if u, err := url.ParseRequestURI(c.Website); err != nil || u.Host == "" {
			v.Add("website", "must be an absolute URL")
		}
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (c *Company) MutableColumns() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"website":     c.Website,
	}
}
