package content

import (
	"context"

	"github.com/community/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	shared.CrudRepository[Category]
}

// ArticleRepository defines the interface for article persistence
type ArticleRepository interface {
	shared.CrudRepository[Article]

	// FindByCategory returns the articles of a category, empty when there are none
	FindByCategory(ctx context.Context, categoryID int64) ([]Article, error)
}
