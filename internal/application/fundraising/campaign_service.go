package fundraising

import (
	"context"
	"time"

	"github.com/community/backend/internal/domain/fundraising"
	"github.com/community/backend/internal/domain/shared"
)

// CampaignService handles campaign operations
type CampaignService struct {
	campaignRepo fundraising.CampaignRepository
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(campaignRepo fundraising.CampaignRepository) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo}
}

// List returns every campaign
func (s *CampaignService) List(ctx context.Context) ([]CampaignResponse, error) {
	items, err := s.campaignRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCampaignResponses(items), nil
}

// GetByID returns one campaign
func (s *CampaignService) GetByID(ctx context.Context, id int64) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

// Create adds a campaign
func (s *CampaignService) Create(ctx context.Context, req CampaignRequest) (*CampaignResponse, error) {
	campaign, err := newCampaign(req)
	if err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

// Update replaces the campaign's fields
func (s *CampaignService) Update(ctx context.Context, id int64, req CampaignRequest) error {
	campaign, err := newCampaign(req)
	if err != nil {
		return err
	}
	campaign.ID = id
	campaign.Version = req.Version

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return shared.ResolveUpdateError(ctx, s.campaignRepo, id, err)
	}
	return nil
}

// Delete removes a campaign together with its donations
func (s *CampaignService) Delete(ctx context.Context, id int64) (*CampaignResponse, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.campaignRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToCampaignResponse(campaign)
	return &response, nil
}

func newCampaign(req CampaignRequest) (*fundraising.Campaign, error) {
	campaign := &fundraising.Campaign{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   utcPtr(req.StartDate),
		EndDate:     utcPtr(req.EndDate),
		Goal:        req.Goal,
	}
	if err := campaign.Validate(); err != nil {
		return nil, err
	}
	return campaign, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
