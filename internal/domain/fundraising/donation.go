package fundraising

import (
	"time"

	"github.com/community/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Donation records money given by a donor to a campaign through a company.
// All three references must exist when the donation is created.
type Donation struct {
	shared.BaseRecord
	DonationAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DonationDate   time.Time       `gorm:"not null"`
	DonorID        int64           `gorm:"not null;index"`
	CampaignID     int64           `gorm:"not null;index"`
	CompanyID      int64           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Donation) TableName() string {
	return "donations"
}

// Validate checks the donation invariants that do not need the store
func (d *Donation) Validate() error {
	v := &shared.ValidationError{}
	if !d.DonationAmount.IsPositive() {
		v.Add("donationAmount", "must be greater than zero")
	}
	if d.DonorID <= 0 {
		v.Add("donorId", "is required")
	}
	if d.CampaignID <= 0 {
		v.Add("campaignId", "is required")
	}
	if d.CompanyID <= 0 {
		v.Add("companyId", "is required")
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (d *Donation) MutableColumns() map[string]any {
	return map[string]any{
		"donation_amount": d.DonationAmount,
		"donation_date":   d.DonationDate,
		"donor_id":        d.DonorID,
		"campaign_id":     d.CampaignID,
		"company_id":      d.CompanyID,
	}
}

// DonationDetails is a donation joined with the names of what it references
type DonationDetails struct {
	Donation
	DonorName    string
	CampaignName string
	CompanyName  string
}
