package handler

import (
	contentapp "github.com/community/backend/internal/application/content"
	employmentapp "github.com/community/backend/internal/application/employment"
	fundraisingapp "github.com/community/backend/internal/application/fundraising"
	"github.com/community/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// Services bundles the application services behind the resource API
type Services struct {
	Categories    *contentapp.CategoryService
	Articles      *contentapp.ArticleService
	Companies     *employmentapp.CompanyService
	JobCategories *employmentapp.JobCategoryService
	Jobs          *employmentapp.JobService
	Donors        *fundraisingapp.DonorService
	Campaigns     *fundraisingapp.CampaignService
	Donations     *fundraisingapp.DonationService
}

// NewCategoryHandler serves /api/CategoryData
func NewCategoryHandler(svc *contentapp.CategoryService) *EntityHandler[contentapp.CategoryRequest, contentapp.CategoryResponse] {
	return NewEntityHandler(EntityConfig[contentapp.CategoryRequest, contentapp.CategoryResponse]{
		Entity:      "Category",
		ListAliases: []string{"ListCategories"},
		Service:     svc,
		ResponseID:  func(r *contentapp.CategoryResponse) int64 { return r.ID },
	})
}

// NewArticleHandler serves /api/ArticleData
func NewArticleHandler(svc *contentapp.ArticleService) *EntityHandler[contentapp.ArticleRequest, contentapp.ArticleResponse] {
	return NewEntityHandler(EntityConfig[contentapp.ArticleRequest, contentapp.ArticleResponse]{
		Entity:     "Article",
		Service:    svc,
		ResponseID: func(r *contentapp.ArticleResponse) int64 { return r.ID },
		Lookups: []Lookup[contentapp.ArticleResponse]{
			{Name: "ListArticlesForCategory", Fetch: svc.ListByCategory},
		},
	})
}

// NewCompanyHandler serves /api/CompanyData
func NewCompanyHandler(svc *employmentapp.CompanyService) *EntityHandler[employmentapp.CompanyRequest, employmentapp.CompanyResponse] {
	return NewEntityHandler(EntityConfig[employmentapp.CompanyRequest, employmentapp.CompanyResponse]{
		Entity:      "Company",
		ListAliases: []string{"ListCompanies"},
		Service:     svc,
		ResponseID:  func(r *employmentapp.CompanyResponse) int64 { return r.ID },
	})
}

// NewJobCategoryHandler serves /api/JobCategoryData
func NewJobCategoryHandler(svc *employmentapp.JobCategoryService) *EntityHandler[employmentapp.JobCategoryRequest, employmentapp.JobCategoryResponse] {
	return NewEntityHandler(EntityConfig[employmentapp.JobCategoryRequest, employmentapp.JobCategoryResponse]{
		Entity:      "JobCategory",
		ListAliases: []string{"ListJobCategories"},
		Service:     svc,
		ResponseID:  func(r *employmentapp.JobCategoryResponse) int64 { return r.ID },
	})
}

// NewJobHandler serves /api/JobData
func NewJobHandler(svc *employmentapp.JobService) *EntityHandler[employmentapp.JobRequest, employmentapp.JobResponse] {
	return NewEntityHandler(EntityConfig[employmentapp.JobRequest, employmentapp.JobResponse]{
		Entity:     "Job",
		Service:    svc,
		ResponseID: func(r *employmentapp.JobResponse) int64 { return r.ID },
		Lookups: []Lookup[employmentapp.JobResponse]{
			{Name: "ListJobsForArticle", Fetch: svc.ListByArticle},
			{Name: "ListJobsForCompany", Fetch: svc.ListByCompany},
			{Name: "ListJobsForJobCategory", Fetch: svc.ListByJobCategory},
		},
	})
}

// NewDonorHandler serves /api/DonorData
func NewDonorHandler(svc *fundraisingapp.DonorService) *EntityHandler[fundraisingapp.DonorRequest, fundraisingapp.DonorResponse] {
	return NewEntityHandler(EntityConfig[fundraisingapp.DonorRequest, fundraisingapp.DonorResponse]{
		Entity:     "Donor",
		Service:    svc,
		ResponseID: func(r *fundraisingapp.DonorResponse) int64 { return r.ID },
	})
}

// NewCampaignHandler serves /api/CampaignData
func NewCampaignHandler(svc *fundraisingapp.CampaignService) *EntityHandler[fundraisingapp.CampaignRequest, fundraisingapp.CampaignResponse] {
	return NewEntityHandler(EntityConfig[fundraisingapp.CampaignRequest, fundraisingapp.CampaignResponse]{
		Entity:     "Campaign",
		Service:    svc,
		ResponseID: func(r *fundraisingapp.CampaignResponse) int64 { return r.ID },
	})
}

// NewDonationHandler serves /api/DonationData
func NewDonationHandler(svc *fundraisingapp.DonationService) *EntityHandler[fundraisingapp.DonationRequest, fundraisingapp.DonationResponse] {
	return NewEntityHandler(EntityConfig[fundraisingapp.DonationRequest, fundraisingapp.DonationResponse]{
		Entity:     "Donation",
		Service:    svc,
		ResponseID: func(r *fundraisingapp.DonationResponse) int64 { return r.ID },
		Lookups: []Lookup[fundraisingapp.DonationResponse]{
			{Name: "ListDonationsForDonor", Fetch: svc.ListByDonor},
			{Name: "ListDonationsForCampaign", Fetch: svc.ListByCampaign},
			{Name: "ListDonationsForCompany", Fetch: svc.ListByCompany},
		},
	})
}

// ResourceRoutes returns the route groups of every resource, with writes behind requireAuth
func ResourceRoutes(s Services, requireAuth gin.HandlerFunc) []*router.DomainGroup {
	return []*router.DomainGroup{
		NewCategoryHandler(s.Categories).Routes(requireAuth),
		NewArticleHandler(s.Articles).Routes(requireAuth),
		NewCompanyHandler(s.Companies).Routes(requireAuth),
		NewJobCategoryHandler(s.JobCategories).Routes(requireAuth),
		NewJobHandler(s.Jobs).Routes(requireAuth),
		NewDonorHandler(s.Donors).Routes(requireAuth),
		NewCampaignHandler(s.Campaigns).Routes(requireAuth),
		NewDonationHandler(s.Donations).Routes(requireAuth),
	}
}
