package content

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
)

// Article is a published piece of content owned by a category.
// Jobs may reference an article; deleting the article deletes them.
type Article struct {
	shared.BaseRecord
	Title         string    `gorm:"type:varchar(200);not null"`
	Content       string    `gorm:"type:text"`
	PublishedDate time.Time `gorm:"not null"`
	CategoryID    int64     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// NewArticle creates a validated article. The category reference is checked
// for existence by the caller.
func NewArticle(title, body string, publishedDate time.Time, categoryID int64) (*Article, error) {
	a := &Article{
		Title:         strings.TrimSpace(title),
		Content:       body,
		PublishedDate: publishedDate,
		CategoryID:    categoryID,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the article invariants that do not need the store
func (a *Article) Validate() error {
	v := &shared.ValidationError{}
	if a.Title == "" {
		v.Add("title", "is required")
	} else if utf8.RuneCountInString(a.Title) > 200 {
		v.Add("title", "must be at most 200 characters")
	}
	if a.CategoryID <= 0 {
		v.Add("categoryId", "is required")
	}
	return v.OrNil()
}

// MutableColumns implements shared.Record
func (a *Article) MutableColumns() map[string]any {
	return map[string]any{
		"title":          a.Title,
		"content":        a.Content,
		"published_date": a.PublishedDate,
		"category_id":    a.CategoryID,
	}
}
