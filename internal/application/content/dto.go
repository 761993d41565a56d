package content

import (
	"time"

	"github.com/community/backend/internal/domain/content"
)

// =============================================================================
// Category DTOs
// =============================================================================

// CategoryRequest is the payload for adding or replacing a category
type CategoryRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Version     int    `json:"version" binding:"min=0"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     int    `json:"version"`
}

// ToCategoryResponse converts a category to its response
func ToCategoryResponse(c *content.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Version:     c.Version,
	}
}

// ToCategoryResponses converts a slice, returning an empty slice for no input
func ToCategoryResponses(items []content.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for i := range items {
		out = append(out, ToCategoryResponse(&items[i]))
	}
	return out
}

// =============================================================================
// Article DTOs
// =============================================================================

// ArticleRequest is the payload for adding or replacing an article.
// A zero publishedDate means now.
type ArticleRequest struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title" binding:"required,max=200"`
	Content       string    `json:"content"`
	PublishedDate time.Time `json:"publishedDate"`
	CategoryID    int64     `json:"categoryId" binding:"required,gt=0"`
	Version       int       `json:"version" binding:"min=0"`
}

// ArticleResponse represents an article in API responses
type ArticleResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PublishedDate time.Time `json:"publishedDate"`
	CategoryID    int64     `json:"categoryId"`
	Version       int       `json:"version"`
}

// ToArticleResponse converts an article to its response
func ToArticleResponse(a *content.Article) ArticleResponse {
	return ArticleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		PublishedDate: a.PublishedDate,
		CategoryID:    a.CategoryID,
		Version:       a.Version,
	}
}

// ToArticleResponses converts a slice, returning an empty slice for no input
func ToArticleResponses(items []content.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(items))
	for i := range items {
		out = append(out, ToArticleResponse(&items[i]))
	}
	return out
}
