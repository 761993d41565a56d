package fundraising

import (
	"context"
	"time"

	"github.com/community/backend/internal/domain/fundraising"
	"github.com/community/backend/internal/domain/shared"
)

// DonationService handles donation operations. Reads return donations joined
// with the names of their donor, campaign and company.
type DonationService struct {
	donationRepo fundraising.DonationRepository
	donorRepo    fundraising.DonorRepository
	campaignRepo fundraising.CampaignRepository
	companies    shared.Exister
}

// NewDonationService creates a new DonationService
func NewDonationService(
	donationRepo fundraising.DonationRepository,
	donorRepo fundraising.DonorRepository,
	campaignRepo fundraising.CampaignRepository,
	companies shared.Exister,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		donorRepo:    donorRepo,
		campaignRepo: campaignRepo,
		companies:    companies,
	}
}

// List returns every donation
func (s *DonationService) List(ctx context.Context) ([]DonationResponse, error) {
	items, err := s.donationRepo.FindAllDetails(ctx)
	if err != nil {
		return nil, err
	}
	return ToDonationResponses(items), nil
}

// ListByDonor returns the donations given by a donor
func (s *DonationService) ListByDonor(ctx context.Context, donorID int64) ([]DonationResponse, error) {
	return s.listBy(ctx, fundraising.DonorColumn, donorID)
}

// ListByCampaign returns the donations made towards a campaign
func (s *DonationService) ListByCampaign(ctx context.Context, campaignID int64) ([]DonationResponse, error) {
	return s.listBy(ctx, fundraising.CampaignColumn, campaignID)
}

// ListByCompany returns the donations made through a company
func (s *DonationService) ListByCompany(ctx context.Context, companyID int64) ([]DonationResponse, error) {
	return s.listBy(ctx, fundraising.CompanyColumn, companyID)
}

func (s *DonationService) listBy(ctx context.Context, column string, id int64) ([]DonationResponse, error) {
	items, err := s.donationRepo.FindDetailsBy(ctx, column, id)
	if err != nil {
		return nil, err
	}
	return ToDonationResponses(items), nil
}

// GetByID returns one donation
func (s *DonationService) GetByID(ctx context.Context, id int64) (*DonationResponse, error) {
	details, err := s.donationRepo.FindDetailsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDonationResponse(details)
	return &response, nil
}

// Create adds a donation; the donor, campaign and company must exist
func (s *DonationService) Create(ctx context.Context, req DonationRequest) (*DonationResponse, error) {
	donation, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, donation.ID)
}

// Update replaces the donation's fields
func (s *DonationService) Update(ctx context.Context, id int64, req DonationRequest) error {
	donation, err := s.build(ctx, req)
	if err != nil {
		return err
	}
	donation.ID = id
	donation.Version = req.Version

	if err := s.donationRepo.Update(ctx, donation); err != nil {
		return shared.ResolveUpdateError(ctx, s.donationRepo, id, err)
	}
	return nil
}

// Delete removes a donation and returns what was removed
func (s *DonationService) Delete(ctx context.Context, id int64) (*DonationResponse, error) {
	details, err := s.donationRepo.FindDetailsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.donationRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToDonationResponse(details)
	return &response, nil
}

func (s *DonationService) build(ctx context.Context, req DonationRequest) (*fundraising.Donation, error) {
	date := req.DonationDate
	if date.IsZero() {
		date = time.Now()
	}

	donation := &fundraising.Donation{
		DonationAmount: req.DonationAmount,
		DonationDate:   date.UTC(),
		DonorID:        req.DonorID,
		CampaignID:     req.CampaignID,
		CompanyID:      req.CompanyID,
	}
	if err := donation.Validate(); err != nil {
		return nil, err
	}

	v := &shared.ValidationError{}
	if err := shared.CheckReference(ctx, v, "donorId", donation.DonorID, s.donorRepo); err != nil {
		return nil, err
	}
	if err := shared.CheckReference(ctx, v, "campaignId", donation.CampaignID, s.campaignRepo); err != nil {
		return nil, err
	}
	if err := shared.CheckReference(ctx, v, "companyId", donation.CompanyID, s.companies); err != nil {
		return nil, err
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return donation, nil
}
