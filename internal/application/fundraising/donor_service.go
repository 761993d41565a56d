package fundraising

import (
	"context"

	"github.com/community/backend/internal/domain/fundraising"
	"github.com/community/backend/internal/domain/shared"
)

// DonorService handles donor operations
type DonorService struct {
	donorRepo fundraising.DonorRepository
}

// NewDonorService creates a new DonorService
func NewDonorService(donorRepo fundraising.DonorRepository) *DonorService {
	return &DonorService{donorRepo: donorRepo}
}

// List returns every donor
func (s *DonorService) List(ctx context.Context) ([]DonorResponse, error) {
	items, err := s.donorRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToDonorResponses(items), nil
}

// GetByID returns one donor
func (s *DonorService) GetByID(ctx context.Context, id int64) (*DonorResponse, error) {
	donor, err := s.donorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDonorResponse(donor)
	return &response, nil
}

// Create adds a donor
func (s *DonorService) Create(ctx context.Context, req DonorRequest) (*DonorResponse, error) {
	donor := &fundraising.Donor{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := donor.Validate(); err != nil {
		return nil, err
	}
	if err := s.donorRepo.Create(ctx, donor); err != nil {
		return nil, err
	}
	response := ToDonorResponse(donor)
	return &response, nil
}

// Update replaces the donor's fields
func (s *DonorService) Update(ctx context.Context, id int64, req DonorRequest) error {
	donor := &fundraising.Donor{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := donor.Validate(); err != nil {
		return err
	}
	donor.ID = id
	donor.Version = req.Version

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return shared.ResolveUpdateError(ctx, s.donorRepo, id, err)
	}
	return nil
}

// Delete removes a donor together with their donations
func (s *DonorService) Delete(ctx context.Context, id int64) (*DonorResponse, error) {
	donor, err := s.donorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.donorRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToDonorResponse(donor)
	return &response, nil
}
