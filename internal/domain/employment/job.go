package employment

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
)

// Job is an opening posted by a company, filed under a job category and
// announced through an article. Removing any of the three removes the job.
type Job struct {
	shared.BaseRecord
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:text"`
	PostedDate    time.Time `gorm:"not null"`
	CompanyID     int64     `gorm:"not null;index"`
	JobCategoryID int64     `gorm:"not null;index"`
	ArticleID     int64     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// Validate checks the job invariants that do not need the store
func (j *Job) Validate() error {
	j.Title = strings.TrimSpace(j.Title)

	v := &shared.ValidationError{}
	if j.Title == "" {
		v.Add("title", "is required")
	} else if utf8.RuneCountInString(j.Title) > 200 {
		v.Add("title", "must be at most 200 characters")
	}
	if j.CompanyID <= 0 {
		v.Add("companyId", "is required")
	}
	if j.JobCategoryID <= 0 {
		v.Add("jobCategoryId", "is required")
	}
	if j.ArticleID <= 0 {
		v.Add("articleId", "is required")
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (j *Job) MutableColumns() map[string]any {
	return map[string]any{
		"title":           j.Title,
		"description":     j.Description,
		"posted_date":     j.PostedDate,
		"company_id":      j.CompanyID,
		"job_category_id": j.JobCategoryID,
		"article_id":      j.ArticleID,
	}
}
