package employment

import (
	"context"

	"github.com/community/backend/internal/domain/employment"
	"github.com/community/backend/internal/domain/shared"
)

// JobCategoryService handles job category operations
type JobCategoryService struct {
	jobCategoryRepo employment.JobCategoryRepository
}

// NewJobCategoryService creates a new JobCategoryService
func NewJobCategoryService(jobCategoryRepo employment.JobCategoryRepository) *JobCategoryService {
	return &JobCategoryService{jobCategoryRepo: jobCategoryRepo}
}

// List returns every job category
func (s *JobCategoryService) List(ctx context.Context) ([]JobCategoryResponse, error) {
	items, err := s.jobCategoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToJobCategoryResponses(items), nil
}

// GetByID returns one job category
func (s *JobCategoryService) GetByID(ctx context.Context, id int64) (*JobCategoryResponse, error) {
	jobCategory, err := s.jobCategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToJobCategoryResponse(jobCategory)
	return &response, nil
}

// Create adds a job category
func (s *JobCategoryService) Create(ctx context.Context, req JobCategoryRequest) (*JobCategoryResponse, error) {
	jobCategory, err := employment.NewJobCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.jobCategoryRepo.Create(ctx, jobCategory); err != nil {
		return nil, err
	}
	response := ToJobCategoryResponse(jobCategory)
	return &response, nil
}

// Update replaces the job category's fields
func (s *JobCategoryService) Update(ctx context.Context, id int64, req JobCategoryRequest) error {
	jobCategory, err := employment.NewJobCategory(req.Name, req.Description)
	if err != nil {
		return err
	}
	jobCategory.ID = id
	jobCategory.Version = req.Version

	if err := s.jobCategoryRepo.Update(ctx, jobCategory); err != nil {
		return shared.ResolveUpdateError(ctx, s.jobCategoryRepo, id, err)
	}
	return nil
}

// Delete removes a job category together with its jobs
func (s *JobCategoryService) Delete(ctx context.Context, id int64) (*JobCategoryResponse, error) {
	jobCategory, err := s.jobCategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.jobCategoryRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToJobCategoryResponse(jobCategory)
	return &response, nil
}
