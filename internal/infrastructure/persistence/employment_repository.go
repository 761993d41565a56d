package persistence

import (
	"context"

	"github.com/community/backend/internal/domain/employment"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	crudRepository[employment.Company, *employment.Company]
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{newCrudRepository[employment.Company, *employment.Company](db)}
}

// GormJobCategoryRepository implements JobCategoryRepository using GORM
type GormJobCategoryRepository struct {
	crudRepository[employment.JobCategory, *employment.JobCategory]
}

// NewGormJobCategoryRepository creates a new GormJobCategoryRepository
func NewGormJobCategoryRepository(db *gorm.DB) *GormJobCategoryRepository {
	return &GormJobCategoryRepository{newCrudRepository[employment.JobCategory, *employment.JobCategory](db)}
}

// GormJobRepository implements JobRepository using GORM
type GormJobRepository struct {
	crudRepository[employment.Job, *employment.Job]
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{newCrudRepository[employment.Job, *employment.Job](db)}
}

// FindByArticle returns the jobs announced by an article
func (r *GormJobRepository) FindByArticle(ctx context.Context, articleID int64) ([]employment.Job, error) {
	return r.findWhere(ctx, "article_id", articleID)
}

// FindByCompany returns the jobs posted by a company
func (r *GormJobRepository) FindByCompany(ctx context.Context, companyID int64) ([]employment.Job, error) {
	return r.findWhere(ctx, "company_id", companyID)
}

// FindByJobCategory returns the jobs filed under a job category
func (r *GormJobRepository) FindByJobCategory(ctx context.Context, jobCategoryID int64) ([]employment.Job, error) {
	return r.findWhere(ctx, "job_category_id", jobCategoryID)
}

// Ensure interfaces are implemented
var (
	_ employment.CompanyRepository     = (*GormCompanyRepository)(nil)
	_ employment.JobCategoryRepository = (*GormJobCategoryRepository)(nil)
	_ employment.JobRepository         = (*GormJobRepository)(nil)
)
