package employment

import (
	"time"

	"github.com/community/backend/internal/domain/employment"
)

// =============================================================================
// Company DTOs
// =============================================================================

// CompanyRequest is the payload for adding or replacing a company
type CompanyRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
	Website     string `json:"website" binding:"omitempty,url,max=255"`
	Version     int    `json:"version" binding:"min=0"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Version     int    `json:"version"`
}

// ToCompanyResponse converts a company to its response
func ToCompanyResponse(c *employment.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Version:     c.Version,
	}
}

// ToCompanyResponses converts a slice, returning an empty slice for no input
func ToCompanyResponses(items []employment.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(items))
	for i := range items {
		out = append(out, ToCompanyResponse(&items[i]))
	}
	return out
}

// =============================================================================
// JobCategory DTOs
// =============================================================================

// JobCategoryRequest is the payload for adding or replacing a job category
type JobCategoryRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Version     int    `json:"version" binding:"min=0"`
}

// JobCategoryResponse represents a job category in API responses
type JobCategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     int    `json:"version"`
}

// ToJobCategoryResponse converts a job category to its response
func ToJobCategoryResponse(jc *employment.JobCategory) JobCategoryResponse {
	return JobCategoryResponse{
		ID:          jc.ID,
		Name:        jc.Name,
		Description: jc.Description,
		Version:     jc.Version,
	}
}

// ToJobCategoryResponses converts a slice, returning an empty slice for no input
func ToJobCategoryResponses(items []employment.JobCategory) []JobCategoryResponse {
	out := make([]JobCategoryResponse, 0, len(items))
	for i := range items {
		out = append(out, ToJobCategoryResponse(&items[i]))
	}
	return out
}

// =============================================================================
// Job DTOs
// =============================================================================

// JobRequest is the payload for adding or replacing a job. A zero postedDate means now.
type JobRequest struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title" binding:"required,max=200"`
	Description   string    `json:"description"`
	PostedDate    time.Time `json:"postedDate"`
	CompanyID     int64     `json:"companyId" binding:"required,gt=0"`
	JobCategoryID int64     `json:"jobCategoryId" binding:"required,gt=0"`
	ArticleID     int64     `json:"articleId" binding:"required,gt=0"`
	Version       int       `json:"version" binding:"min=0"`
}

// JobResponse represents a job in API responses
type JobResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PostedDate    time.Time `json:"postedDate"`
	CompanyID     int64     `json:"companyId"`
	JobCategoryID int64     `json:"jobCategoryId"`
	ArticleID     int64     `json:"articleId"`
	Version       int       `json:"version"`
}

// ToJobResponse converts a job to its response
func ToJobResponse(j *employment.Job) JobResponse {
	return JobResponse{
		ID:            j.ID,
		Title:         j.Title,
		Description:   j.Description,
		PostedDate:    j.PostedDate,
		CompanyID:     j.CompanyID,
		JobCategoryID: j.JobCategoryID,
		ArticleID:     j.ArticleID,
		Version:       j.Version,
	}
}

// ToJobResponses converts a slice, returning an empty slice for no input
func ToJobResponses(items []employment.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for i := range items {
		out = append(out, ToJobResponse(&items[i]))
	}
	return out
}
