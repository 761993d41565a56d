package content

import (
	"strings"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
)

// Category groups articles. Deleting a category deletes its articles.
type Category struct {
	shared.BaseRecord
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a validated category
func NewCategory(name, description string) (*Category, error) {
	c := &Category{
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the category invariants
func (c *Category) Validate() error {
	v := &shared.ValidationError{}
	if c.Name == "" {
		v.Add("name", "is required")
	} else if utf8.RuneCountInString(c.Name) > 100 {
		v.Add("name", "must be at most 100 characters")
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (c *Category) MutableColumns() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
	}
}
