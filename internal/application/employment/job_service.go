package employment

import (
	"context"
	"time"

	"github.com/community/backend/internal/domain/employment"
	"github.com/community/backend/internal/domain/shared"
)

// JobService handles job operations. A job references a company, a job
// category and an article; all three must exist when it is written.
type JobService struct {
	jobRepo         employment.JobRepository
	companyRepo     employment.CompanyRepository
	jobCategoryRepo employment.JobCategoryRepository
	articles        shared.Exister
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo employment.JobRepository,
	companyRepo employment.CompanyRepository,
	jobCategoryRepo employment.JobCategoryRepository,
	articles shared.Exister,
) *JobService {
	return &JobService{
		jobRepo:         jobRepo,
		companyRepo:     companyRepo,
		jobCategoryRepo: jobCategoryRepo,
		articles:        articles,
	}
}

// List returns every job
func (s *JobService) List(ctx context.Context) ([]JobResponse, error) {
	items, err := s.jobRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToJobResponses(items), nil
}

// ListByArticle returns the jobs announced by an article
func (s *JobService) ListByArticle(ctx context.Context, articleID int64) ([]JobResponse, error) {
	return s.list(s.jobRepo.FindByArticle(ctx, articleID))
}

// ListByCompany returns the jobs posted by a company
func (s *JobService) ListByCompany(ctx context.Context, companyID int64) ([]JobResponse, error) {
	return s.list(s.jobRepo.FindByCompany(ctx, companyID))
}

// ListByJobCategory returns the jobs filed under a job category
func (s *JobService) ListByJobCategory(ctx context.Context, jobCategoryID int64) ([]JobResponse, error) {
	return s.list(s.jobRepo.FindByJobCategory(ctx, jobCategoryID))
}

func (s *JobService) list(items []employment.Job, err error) ([]JobResponse, error) {
	if err != nil {
		return nil, err
	}
	return ToJobResponses(items), nil
}

// GetByID returns one job
func (s *JobService) GetByID(ctx context.Context, id int64) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToJobResponse(job)
	return &response, nil
}

// Create adds a job
func (s *JobService) Create(ctx context.Context, req JobRequest) (*JobResponse, error) {
	job, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	response := ToJobResponse(job)
	return &response, nil
}

// Update replaces the job's fields
func (s *JobService) Update(ctx context.Context, id int64, req JobRequest) error {
	job, err := s.build(ctx, req)
	if err != nil {
		return err
	}
	job.ID = id
	job.Version = req.Version

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return shared.ResolveUpdateError(ctx, s.jobRepo, id, err)
	}
	return nil
}

// Delete removes a job and returns what was removed
func (s *JobService) Delete(ctx context.Context, id int64) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToJobResponse(job)
	return &response, nil
}

func (s *JobService) build(ctx context.Context, req JobRequest) (*employment.Job, error) {
	posted := req.PostedDate
	if posted.IsZero() {
		posted = time.Now()
	}

	job := &employment.Job{
		Title:         req.Title,
		Description:   req.Description,
		PostedDate:    posted.UTC(),
		CompanyID:     req.CompanyID,
		JobCategoryID: req.JobCategoryID,
		ArticleID:     req.ArticleID,
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	v := &shared.ValidationError{}
	refs := []struct {
		field string
		id    int64
		repo  shared.Exister
	}{
		{"companyId", job.CompanyID, s.companyRepo},
		{"jobCategoryId", job.JobCategoryID, s.jobCategoryRepo},
		{"articleId", job.ArticleID, s.articles},
	}
	for _, ref := range refs {
		if err := shared.CheckReference(ctx, v, ref.field, ref.id, ref.repo); err != nil {
			return nil, err
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return job, nil
}
