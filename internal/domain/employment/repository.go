package employment

import (
	"context"

	"github.com/community/backend/internal/domain/shared"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	shared.CrudRepository[Company]
}

// JobCategoryRepository defines the interface for job category persistence
type JobCategoryRepository interface {
	shared.CrudRepository[JobCategory]
}

// JobRepository defines the interface for job persistence
type JobRepository interface {
	shared.CrudRepository[Job]

	// FindByArticle returns the jobs announced by an article
	FindByArticle(ctx context.Context, articleID int64) ([]Job, error)

	// FindByCompany returns the jobs posted by a company
	FindByCompany(ctx context.Context, companyID int64) ([]Job, error)

	// FindByJobCategory returns the jobs filed under a job category
	FindByJobCategory(ctx context.Context, jobCategoryID int64) ([]Job, error)
}
