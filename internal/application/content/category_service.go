package content

import (
	"context"

	"github.com/community/backend/internal/domain/content"
	"github.com/community/backend/internal/domain/shared"
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo content.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo content.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns every category
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	items, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(items), nil
}

// GetByID returns one category
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// Create adds a category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := content.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// Update replaces the category's fields
func (s *CategoryService) Update(ctx context.Context, id int64, req CategoryRequest) error {
	category, err := content.NewCategory(req.Name, req.Description)
	if err != nil {
		return err
	}
	category.ID = id
	category.Version = req.Version

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return shared.ResolveUpdateError(ctx, s.categoryRepo, id, err)
	}
	return nil
}

// Delete removes a category with its articles and returns what was removed
func (s *CategoryService) Delete(ctx context.Context, id int64) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}
