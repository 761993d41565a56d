package persistence

import (
	"context"

	"github.com/community/backend/internal/domain/content"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	crudRepository[content.Category, *content.Category]
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{newCrudRepository[content.Category, *content.Category](db)}
}

// GormArticleRepository implements ArticleRepository using GORM
type GormArticleRepository struct {
	crudRepository[content.Article, *content.Article]
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{newCrudRepository[content.Article, *content.Article](db)}
}

// FindByCategory returns the articles of a category ordered by id
func (r *GormArticleRepository) FindByCategory(ctx context.Context, categoryID int64) ([]content.Article, error) {
	return r.findWhere(ctx, "category_id", categoryID)
}

// Ensure interfaces are implemented
var (
	_ content.CategoryRepository = (*GormCategoryRepository)(nil)
	_ content.ArticleRepository  = (*GormArticleRepository)(nil)
)
