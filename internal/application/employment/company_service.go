package employment

import (
	"context"

	"github.com/community/backend/internal/domain/employment"
	"github.com/community/backend/internal/domain/shared"
)

// CompanyService handles company operations
type CompanyService struct {
	companyRepo employment.CompanyRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo employment.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

// List returns every company
func (s *CompanyService) List(ctx context.Context) ([]CompanyResponse, error) {
	items, err := s.companyRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCompanyResponses(items), nil
}

// GetByID returns one company
func (s *CompanyService) GetByID(ctx context.Context, id int64) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// Create adds a company
func (s *CompanyService) Create(ctx context.Context, req CompanyRequest) (*CompanyResponse, error) {
	company, err := employment.NewCompany(req.Name, req.Description, req.Website)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// Update replaces the company's fields
func (s *CompanyService) Update(ctx context.Context, id int64, req CompanyRequest) error {
	company, err := employment.NewCompany(req.Name, req.Description, req.Website)
	if err != nil {
		return err
	}
	company.ID = id
	company.Version = req.Version

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return shared.ResolveUpdateError(ctx, s.companyRepo, id, err)
	}
	return nil
}

// Delete removes a company together with its jobs and donations
func (s *CompanyService) Delete(ctx context.Context, id int64) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}
