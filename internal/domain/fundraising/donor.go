package fundraising

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
)

// Donor is a person or organisation giving donations
type Donor struct {
	shared.BaseRecord
	Name  string `gorm:"type:varchar(150);not null"`
	Email string `gorm:"type:varchar(255)"`
	Phone string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Donor) TableName() string {
	return "donors"
}

// Validate checks the donor invariants
func (d *Donor) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)

	v := &shared.ValidationError{}
	if d.Name == "" {
		v.Add("name", "is required")
	} else if utf8.RuneCountInString(d.Name) > 150 {
		v.Add("name", "must be at most 150 characters")
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			v.Add("email", "must be a valid email address")
		}
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (d *Donor) MutableColumns() map[string]any {
	return map[string]any{
		"name":  d.Name,
		"email": d.Email,
		"phone": d.Phone,
	}
}
