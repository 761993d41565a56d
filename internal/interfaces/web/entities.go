package web

import (
	"context"
	"strconv"

	appcontent "github.com/community/backend/internal/application/content"
	appemployment "github.com/community/backend/internal/application/employment"
	appfundraising "github.com/community/backend/internal/application/fundraising"
	"github.com/community/backend/internal/interfaces/web/apiclient"
)

func (p *Pages) entities() []routable {
	return []routable{
		p.articlePages(),
		p.categoryPages(),
		p.companyPages(),
		p.jobCategoryPages(),
		p.jobPages(),
		p.donorPages(),
		p.campaignPages(),
		p.donationPages(),
	}
}

// =============================================================================
// Table cells shared by list pages and related lists
// =============================================================================

var (
	articleColumns  = []string{"Title", "Published"}
	categoryColumns = []string{"Name", "Description"}
	companyColumns  = []string{"Name", "Website"}
	jobColumns      = []string{"Title", "Posted"}
	donorColumns    = []string{"Name", "Email", "Phone"}
	campaignColumns = []string{"Name", "Goal", "Starts", "Ends"}
	donationColumns = []string{"Amount", "Date", "Donor", "Campaign", "Company"}
)

func articleID(a *appcontent.ArticleResponse) int64 { return a.ID }
func articleCells(a *appcontent.ArticleResponse) []string {
	return []string{a.Title, formatDate(a.PublishedDate)}
}

func categoryID(c *appcontent.CategoryResponse) int64 { return c.ID }
func categoryCells(c *appcontent.CategoryResponse) []string {
	return []string{c.Name, c.Description}
}

func companyID(c *appemployment.CompanyResponse) int64 { return c.ID }
func companyCells(c *appemployment.CompanyResponse) []string {
	return []string{c.Name, c.Website}
}

func jobCategoryID(c *appemployment.JobCategoryResponse) int64 { return c.ID }
func jobCategoryCells(c *appemployment.JobCategoryResponse) []string {
	return []string{c.Name, c.Description}
}

func jobID(j *appemployment.JobResponse) int64 { return j.ID }
func jobCells(j *appemployment.JobResponse) []string {
	return []string{j.Title, formatDate(j.PostedDate)}
}

func donorID(d *appfundraising.DonorResponse) int64 { return d.ID }
func donorCells(d *appfundraising.DonorResponse) []string {
	return []string{d.Name, d.Email, d.Phone}
}

func campaignID(c *appfundraising.CampaignResponse) int64 { return c.ID }
func campaignCells(c *appfundraising.CampaignResponse) []string {
	return []string{c.Name, c.Goal.StringFixed(2), formatOptionalDate(c.StartDate), formatOptionalDate(c.EndDate)}
}

func donationID(d *appfundraising.DonationResponse) int64 { return d.ID }
func donationCells(d *appfundraising.DonationResponse) []string {
	return []string{d.DonationAmount.StringFixed(2), formatDate(d.DonationDate), d.DonorName, d.CampaignName, d.CompanyName}
}

// lookupRows adapts a foreign-key lookup to a related list
func lookupRows[Req, Resp any](r *apiclient.Resource[Req, Resp], name string, id func(*Resp) int64, cells func(*Resp) []string) func(context.Context, apiclient.Session, int64) ([]Row, error) {
	return func(ctx context.Context, sess apiclient.Session, parentID int64) ([]Row, error) {
		items, err := r.Lookup(ctx, sess, name, parentID)
		if err != nil {
			return nil, err
		}
		return rowsFrom(items, id, cells), nil
	}
}

// listOptions adapts a List call to a select field's options
func listOptions[Req, Resp any](r *apiclient.Resource[Req, Resp], id func(*Resp) int64, label func(*Resp) string) OptionSource {
	return func(ctx context.Context, sess apiclient.Session) ([]Option, error) {
		items, err := r.List(ctx, sess)
		if err != nil {
			return nil, err
		}
		return optionsFrom(items, id, label), nil
	}
}

// =============================================================================
// Content
// =============================================================================

func (p *Pages) articlePages() routable {
	return newEntityPages(p, EntityPagesConfig[appcontent.ArticleRequest, appcontent.ArticleResponse]{
		Entity:   "Article",
		Plural:   "Articles",
		Resource: p.api.Articles,
		ID:       articleID,
		Version:  func(a *appcontent.ArticleResponse) int { return a.Version },
		Columns:  articleColumns,
		Cells:    articleCells,
		Display: func(a *appcontent.ArticleResponse) []Display {
			return []Display{
				{"Title", a.Title},
				{"Content", a.Content},
				{"Published", formatDate(a.PublishedDate)},
				{"Category", formatID(a.CategoryID)},
			}
		},
		Fields: []FieldSpec{
			{Name: "title", Label: "Title", Type: fieldText, Required: true},
			{Name: "content", Label: "Content", Type: fieldTextarea},
			{Name: "publishedDate", Label: "Published", Type: fieldDate},
			{Name: "categoryId", Label: "Category", Type: fieldSelect, Required: true,
				Options: listOptions(p.api.Categories, categoryID, func(c *appcontent.CategoryResponse) string { return c.Name })},
		},
		Values: func(a *appcontent.ArticleResponse) map[string]string {
			return map[string]string{
				"title":         a.Title,
				"content":       a.Content,
				"publishedDate": formatDate(a.PublishedDate),
				"categoryId":    formatID(a.CategoryID),
			}
		},
		Decode: func(f *formReader, id int64) appcontent.ArticleRequest {
			return appcontent.ArticleRequest{
				ID:            id,
				Title:         f.String("title"),
				Content:       f.String("content"),
				PublishedDate: f.Date("publishedDate"),
				CategoryID:    f.Ref("categoryId"),
				Version:       f.Version(),
			}
		},
		Related: []Related{{
			Title: "Jobs", Entity: "Job", Columns: jobColumns,
			Fetch: lookupRows(p.api.Jobs, "ListJobsForArticle", jobID, jobCells),
		}},
	})
}

func (p *Pages) categoryPages() routable {
	return newEntityPages(p, EntityPagesConfig[appcontent.CategoryRequest, appcontent.CategoryResponse]{
		Entity:   "Category",
		Plural:   "Categories",
		Resource: p.api.Categories,
		ID:       categoryID,
		Version:  func(c *appcontent.CategoryResponse) int { return c.Version },
		Columns:  categoryColumns,
		Cells:    categoryCells,
		Display: func(c *appcontent.CategoryResponse) []Display {
			return []Display{{"Name", c.Name}, {"Description", c.Description}}
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: fieldText, Required: true},
			{Name: "description", Label: "Description", Type: fieldTextarea},
		},
		Values: func(c *appcontent.CategoryResponse) map[string]string {
			return map[string]string{"name": c.Name, "description": c.Description}
		},
		Decode: func(f *formReader, id int64) appcontent.CategoryRequest {
			return appcontent.CategoryRequest{
				ID:          id,
				Name:        f.String("name"),
				Description: f.String("description"),
				Version:     f.Version(),
			}
		},
		Related: []Related{{
			Title: "Articles", Entity: "Article", Columns: articleColumns,
			Fetch: lookupRows(p.api.Articles, "ListArticlesForCategory", articleID, articleCells),
		}},
	})
}

// =============================================================================
// Employment
// =============================================================================

func (p *Pages) companyPages() routable {
	return newEntityPages(p, EntityPagesConfig[appemployment.CompanyRequest, appemployment.CompanyResponse]{
		Entity:   "Company",
		Plural:   "Companies",
		Resource: p.api.Companies,
		ID:       companyID,
		Version:  func(c *appemployment.CompanyResponse) int { return c.Version },
		Columns:  companyColumns,
		Cells:    companyCells,
		Display: func(c *appemployment.CompanyResponse) []Display {
			return []Display{{"Name", c.Name}, {"Description", c.Description}, {"Website", c.Website}}
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: fieldText, Required: true},
			{Name: "description", Label: "Description", Type: fieldTextarea},
			{Name: "website", Label: "Website", Type: fieldURL},
		},
		Values: func(c *appemployment.CompanyResponse) map[string]string {
			return map[string]string{"name": c.Name, "description": c.Description, "website": c.Website}
		},
		Decode: func(f *formReader, id int64) appemployment.CompanyRequest {
			return appemployment.CompanyRequest{
				ID:          id,
				Name:        f.String("name"),
				Description: f.String("description"),
				Website:     f.String("website"),
				Version:     f.Version(),
			}
		},
		Related: []Related{
			{
				Title: "Jobs", Entity: "Job", Columns: jobColumns,
				Fetch: lookupRows(p.api.Jobs, "ListJobsForCompany", jobID, jobCells),
			},
			{
				Title: "Donations", Entity: "Donation", Columns: donationColumns,
				Fetch: lookupRows(p.api.Donations, "ListDonationsForCompany", donationID, donationCells),
			},
		},
	})
}

func (p *Pages) jobCategoryPages() routable {
	return newEntityPages(p, EntityPagesConfig[appemployment.JobCategoryRequest, appemployment.JobCategoryResponse]{
		Entity:   "JobCategory",
		Plural:   "Job categories",
		Resource: p.api.JobCategories,
		ID:       jobCategoryID,
		Version:  func(c *appemployment.JobCategoryResponse) int { return c.Version },
		Columns:  categoryColumns,
		Cells:    jobCategoryCells,
		Display: func(c *appemployment.JobCategoryResponse) []Display {
			return []Display{{"Name", c.Name}, {"Description", c.Description}}
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: fieldText, Required: true},
			{Name: "description", Label: "Description", Type: fieldTextarea},
		},
		Values: func(c *appemployment.JobCategoryResponse) map[string]string {
			return map[string]string{"name": c.Name, "description": c.Description}
		},
		Decode: func(f *formReader, id int64) appemployment.JobCategoryRequest {
			return appemployment.JobCategoryRequest{
				ID:          id,
				Name:        f.String("name"),
				Description: f.String("description"),
				Version:     f.Version(),
			}
		},
		Related: []Related{{
			Title: "Jobs", Entity: "Job", Columns: jobColumns,
			Fetch: lookupRows(p.api.Jobs, "ListJobsForJobCategory", jobID, jobCells),
		}},
	})
}

func (p *Pages) jobPages() routable {
	return newEntityPages(p, EntityPagesConfig[appemployment.JobRequest, appemployment.JobResponse]{
		Entity:   "Job",
		Plural:   "Jobs",
		Resource: p.api.Jobs,
		ID:       jobID,
		Version:  func(j *appemployment.JobResponse) int { return j.Version },
		Columns:  jobColumns,
		Cells:    jobCells,
		Display: func(j *appemployment.JobResponse) []Display {
			return []Display{
				{"Title", j.Title},
				{"Description", j.Description},
				{"Posted", formatDate(j.PostedDate)},
				{"Company", formatID(j.CompanyID)},
				{"Job category", formatID(j.JobCategoryID)},
				{"Article", formatID(j.ArticleID)},
			}
		},
		Fields: []FieldSpec{
			{Name: "title", Label: "Title", Type: fieldText, Required: true},
			{Name: "description", Label: "Description", Type: fieldTextarea},
			{Name: "postedDate", Label: "Posted", Type: fieldDate},
			{Name: "companyId", Label: "Company", Type: fieldSelect, Required: true,
				Options: listOptions(p.api.Companies, companyID, func(c *appemployment.CompanyResponse) string { return c.Name })},
			{Name: "jobCategoryId", Label: "Job category", Type: fieldSelect, Required: true,
				Options: listOptions(p.api.JobCategories, jobCategoryID, func(c *appemployment.JobCategoryResponse) string { return c.Name })},
			{Name: "articleId", Label: "Article", Type: fieldSelect, Required: true,
				Options: listOptions(p.api.Articles, articleID, func(a *appcontent.ArticleResponse) string { return a.Title })},
		},
		Values: func(j *appemployment.JobResponse) map[string]string {
			return map[string]string{
				"title":         j.Title,
				"description":   j.Description,
				"postedDate":    formatDate(j.PostedDate),
				"companyId":     formatID(j.CompanyID),
				"jobCategoryId": formatID(j.JobCategoryID),
				"articleId":     formatID(j.ArticleID),
			}
		},
		Decode: func(f *formReader, id int64) appemployment.JobRequest {
			return appemployment.JobRequest{
				ID:            id,
				Title:         f.String("title"),
				Description:   f.String("description"),
				PostedDate:    f.Date("postedDate"),
				CompanyID:     f.Ref("companyId"),
				JobCategoryID: f.Ref("jobCategoryId"),
				ArticleID:     f.Ref("articleId"),
				Version:       f.Version(),
			}
		},
	})
}

// =============================================================================
// Fundraising
// =============================================================================

func (p *Pages) donorPages() routable {
	return newEntityPages(p, EntityPagesConfig[appfundraising.DonorRequest, appfundraising.DonorResponse]{
		Entity:   "Donor",
		Plural:   "Donors",
		Resource: p.api.Donors,
		ID:       donorID,
		Version:  func(d *appfundraising.DonorResponse) int { return d.Version },
		Columns:  donorColumns,
		Cells:    donorCells,
		Display: func(d *appfundraising.DonorResponse) []Display {
			return []Display{{"Name", d.Name}, {"Email", d.Email}, {"Phone", d.Phone}}
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: fieldText, Required: true},
			{Name: "email", Label: "Email", Type: fieldEmail},
			{Name: "phone", Label: "Phone", Type: fieldText},
		},
		Values: func(d *appfundraising.DonorResponse) map[string]string {
			return map[string]string{"name": d.Name, "email": d.Email, "phone": d.Phone}
		},
		Decode: func(f *formReader, id int64) appfundraising.DonorRequest {
			return appfundraising.DonorRequest{
				ID:      id,
				Name:    f.String("name"),
				Email:   f.String("email"),
				Phone:   f.String("phone"),
				Version: f.Version(),
			}
		},
		Related: []Related{{
			Title: "Donations", Entity: "Donation", Columns: donationColumns,
			Fetch: lookupRows(p.api.Donations, "ListDonationsForDonor", donationID, donationCells),
		}},
	})
}

func (p *Pages) campaignPages() routable {
	return newEntityPages(p, EntityPagesConfig[appfundraising.CampaignRequest, appfundraising.CampaignResponse]{
		Entity:   "Campaign",
		Plural:   "Campaigns",
		Resource: p.api.Campaigns,
		ID:       campaignID,
		Version:  func(c *appfundraising.CampaignResponse) int { return c.Version },
		Columns:  campaignColumns,
		Cells:    campaignCells,
		Display: func(c *appfundraising.CampaignResponse) []Display {
			return []Display{
				{"Name", c.Name},
				{"Description", c.Description},
				{"Starts", formatOptionalDate(c.StartDate)},
				{"Ends", formatOptionalDate(c.EndDate)},
				{"Goal", c.Goal.StringFixed(2)},
			}
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: fieldText, Required: true},
			{Name: "description", Label: "Description", Type: fieldTextarea},
			{Name: "startDate", Label: "Starts", Type: fieldDate},
			{Name: "endDate", Label: "Ends", Type: fieldDate},
			{Name: "goal", Label: "Goal", Type: fieldNumber},
		},
		Values: func(c *appfundraising.CampaignResponse) map[string]string {
			return map[string]string{
				"name":        c.Name,
				"description": c.Description,
				"startDate":   formatOptionalDate(c.StartDate),
				"endDate":     formatOptionalDate(c.EndDate),
				"goal":        c.Goal.String(),
			}
		},
		Decode: func(f *formReader, id int64) appfundraising.CampaignRequest {
			return appfundraising.CampaignRequest{
				ID:          id,
				Name:        f.String("name"),
				Description: f.String("description"),
				StartDate:   f.OptionalDate("startDate"),
				EndDate:     f.OptionalDate("endDate"),
				Goal:        f.Decimal("goal"),
				Version:     f.Version(),
			}
		},
		Related: []Related{{
			Title: "Donations", Entity: "Donation", Columns: donationColumns,
			Fetch: lookupRows(p.api.Donations, "ListDonationsForCampaign", donationID, donationCells),
		}},
	})
}

func (p *Pages) donationPages() routable {
	return newEntityPages(p, EntityPagesConfig[appfundraising.DonationRequest, appfundraising.DonationResponse]{
		Entity:   "Donation",
		Plural:   "Donations",
		Resource: p.api.Donations,
		ID:       donationID,
		Version:  func(d *appfundraising.DonationResponse) int { return d.Version },
		Columns:  donationColumns,
		Cells:    donationCells,
		Display: func(d *appfundraising.DonationResponse) []Display {
			return []Display{
				{"Amount", d.DonationAmount.StringFixed(2)},
				{"Date", formatDate(d.DonationDate)},
				{"Donor", d.DonorName},
				{"Campaign", d.CampaignName},
				{"Company", d.CompanyName},
			}
		},
		Fields: []FieldSpec{
			{Name: "donationAmount", Label: "Amount", Type: fieldNumber, Required: true},
			{Name: "donationDate", Label: "Date", Type: fieldDate},
			{Name: "donorId", Label: "Donor", Type: fieldSelect, Required: true,
				Options: listOptions(p.api.Donors, donorID, func(d *appfundraising.DonorResponse) string { return d.Name })},
			{Name: "campaignId", Label: "Campaign", Type: fieldSelect, Required: true,
				Options: listOptions(p.api.Campaigns, campaignID, func(c *appfundraising.CampaignResponse) string { return c.Name })},
			{Name: "companyId", Label: "Company", Type: fieldSelect, Required: true,
				Options: listOptions(p.api.Companies, companyID, func(c *appemployment.CompanyResponse) string { return c.Name })},
		},
		Values: func(d *appfundraising.DonationResponse) map[string]string {
			return map[string]string{
				"donationAmount": d.DonationAmount.String(),
				"donationDate":   formatDate(d.DonationDate),
				"donorId":        strconv.FormatInt(d.DonorID, 10),
				"campaignId":     strconv.FormatInt(d.CampaignID, 10),
				"companyId":      strconv.FormatInt(d.CompanyID, 10),
			}
		},
		Decode: func(f *formReader, id int64) appfundraising.DonationRequest {
			return appfundraising.DonationRequest{
				ID:             id,
				DonationAmount: f.Decimal("donationAmount"),
				DonationDate:   f.Date("donationDate"),
				DonorID:        f.Ref("donorId"),
				CampaignID:     f.Ref("campaignId"),
				CompanyID:      f.Ref("companyId"),
				Version:        f.Version(),
			}
		},
	})
}
