package fundraising

import (
	"time"

	"github.com/community/backend/internal/domain/fundraising"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Donor DTOs
// =============================================================================

// DonorRequest is the payload for adding or replacing a donor
type DonorRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name" binding:"required,max=150"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Phone   string `json:"phone" binding:"max=50"`
	Version int    `json:"version" binding:"min=0"`
}

// DonorResponse represents a donor in API responses
type DonorResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Version int    `json:"version"`
}

// ToDonorResponse converts a donor to its response
func ToDonorResponse(d *fundraising.Donor) DonorResponse {
	return DonorResponse{ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone, Version: d.Version}
}

// ToDonorResponses converts a slice, returning an empty slice for no input
func ToDonorResponses(items []fundraising.Donor) []DonorResponse {
	out := make([]DonorResponse, 0, len(items))
	for i := range items {
		out = append(out, ToDonorResponse(&items[i]))
	}
	return out
}

// =============================================================================
// Campaign DTOs
// =============================================================================

// CampaignRequest is the payload for adding or replacing a campaign
type CampaignRequest struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" binding:"required,max=150"`
	Description string          `json:"description"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	Goal        decimal.Decimal `json:"goal"`
	Version     int             `json:"version" binding:"min=0"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	Goal        decimal.Decimal `json:"goal"`
	Version     int             `json:"version"`
}

// ToCampaignResponse converts a campaign to its response
func ToCampaignResponse(c *fundraising.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Goal:        c.Goal,
		Version:     c.Version,
	}
}

// ToCampaignResponses converts a slice, returning an empty slice for no input
func ToCampaignResponses(items []fundraising.Campaign) []CampaignResponse {
	out := make([]CampaignResponse, 0, len(items))
	for i := range items {
		out = append(out, ToCampaignResponse(&items[i]))
	}
	return out
}

// =============================================================================
// Donation DTOs
// =============================================================================

// DonationRequest is the payload for adding or replacing a donation. A zero
// donationDate means now.
type DonationRequest struct {
	ID             int64           `json:"id"`
	DonationAmount decimal.Decimal `json:"donationAmount"`
	DonationDate   time.Time       `json:"donationDate"`
	DonorID        int64           `json:"donorId" binding:"required,gt=0"`
	CampaignID     int64           `json:"campaignId" binding:"required,gt=0"`
	CompanyID      int64           `json:"companyId" binding:"required,gt=0"`
	Version        int             `json:"version" binding:"min=0"`
}

// DonationResponse represents a donation in API responses, with the names of
// what it references resolved for display
type DonationResponse struct {
	ID             int64           `json:"id"`
	DonationAmount decimal.Decimal `json:"donationAmount"`
	DonationDate   time.Time       `json:"donationDate"`
	DonorID        int64           `json:"donorId"`
	DonorName      string          `json:"donorName"`
	CampaignID     int64           `json:"campaignId"`
	CampaignName   string          `json:"campaignName"`
	CompanyID      int64           `json:"companyId"`
	CompanyName    string          `json:"companyName"`
	Version        int             `json:"version"`
}

// ToDonationResponse converts donation details to a response
func ToDonationResponse(d *fundraising.DonationDetails) DonationResponse {
	return DonationResponse{
		ID:             d.ID,
		DonationAmount: d.DonationAmount,
		DonationDate:   d.DonationDate,
		DonorID:        d.DonorID,
		DonorName:      d.DonorName,
		CampaignID:     d.CampaignID,
		CampaignName:   d.CampaignName,
		CompanyID:      d.CompanyID,
		CompanyName:    d.CompanyName,
		Version:        d.Version,
	}
}

// ToDonationResponses converts a slice, returning an empty slice for no input
func ToDonationResponses(items []fundraising.DonationDetails) []DonationResponse {
	out := make([]DonationResponse, 0, len(items))
	for i := range items {
		out = append(out, ToDonationResponse(&items[i]))
	}
	return out
}
