package apiclient

import (
	appcontent "github.com/community/backend/internal/application/content"
	appemployment "github.com/community/backend/internal/application/employment"
	appfundraising "github.com/community/backend/internal/application/fundraising"
)

// Resources groups the typed resource clients for every entity
type Resources struct {
	Categories    *Resource[appcontent.CategoryRequest, appcontent.CategoryResponse]
	Articles      *Resource[appcontent.ArticleRequest, appcontent.ArticleResponse]
	Companies     *Resource[appemployment.CompanyRequest, appemployment.CompanyResponse]
	JobCategories *Resource[appemployment.JobCategoryRequest, appemployment.JobCategoryResponse]
	Jobs          *Resource[appemployment.JobRequest, appemployment.JobResponse]
	Donors        *Resource[appfundraising.DonorRequest, appfundraising.DonorResponse]
	Campaigns     *Resource[appfundraising.CampaignRequest, appfundraising.CampaignResponse]
	Donations     *Resource[appfundraising.DonationRequest, appfundraising.DonationResponse]
}

// NewResources binds every entity to client
func NewResources(client *Client) Resources {
	return Resources{
		Categories:    NewResource[appcontent.CategoryRequest, appcontent.CategoryResponse](client, "Category"),
		Articles:      NewResource[appcontent.ArticleRequest, appcontent.ArticleResponse](client, "Article"),
		Companies:     NewResource[appemployment.CompanyRequest, appemployment.CompanyResponse](client, "Company"),
		JobCategories: NewResource[appemployment.JobCategoryRequest, appemployment.JobCategoryResponse](client, "JobCategory"),
		Jobs:          NewResource[appemployment.JobRequest, appemployment.JobResponse](client, "Job"),
		Donors:        NewResource[appfundraising.DonorRequest, appfundraising.DonorResponse](client, "Donor"),
		Campaigns:     NewResource[appfundraising.CampaignRequest, appfundraising.CampaignResponse](client, "Campaign"),
		Donations:     NewResource[appfundraising.DonationRequest, appfundraising.DonationResponse](client, "Donation"),
	}
}
