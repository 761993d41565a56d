package fundraising

import (
	"context"

	"github.com/community/backend/internal/domain/shared"
)

// DonorRepository defines the interface for donor persistence
type DonorRepository interface {
	shared.CrudRepository[Donor]
}

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	shared.CrudRepository[Campaign]
}

// DonationRepository defines the interface for donation persistence
type DonationRepository interface {
	shared.CrudRepository[Donation]

	// FindAllDetails returns every donation with donor, campaign and company names
	FindAllDetails(ctx context.Context) ([]DonationDetails, error)

	// FindDetailsByID returns one donation with donor, campaign and company names
	FindDetailsByID(ctx context.Context, id int64) (*DonationDetails, error)

	// FindDetailsBy returns the donations whose column equals id. Column is one
	// of DonorColumn, CampaignColumn or CompanyColumn.
	FindDetailsBy(ctx context.Context, column string, id int64) ([]DonationDetails, error)
}

// Columns accepted by DonationRepository.FindDetailsBy
const (
	DonorColumn    = "donor_id"
	CampaignColumn = "campaign_id"
	CompanyColumn  = "company_id"
)
