package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/community/backend/internal/domain/content"
	"github.com/community/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]content.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*content.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *content.Category) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 7
		c.Version = 1
	}
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *content.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindAll(ctx context.Context) ([]content.Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByCategory(ctx context.Context, categoryID int64) ([]content.Article, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]content.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id int64) (*content.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Article), args.Error(1)
}

func (m *MockArticleRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) Create(ctx context.Context, a *content.Article) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 11
		a.Version = 1
	}
	return args.Error(0)
}

func (m *MockArticleRepository) Update(ctx context.Context, a *content.Article) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockArticleRepository) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// =============================================================================
// CategoryService
// =============================================================================

func TestCategoryService_List(t *testing.T) {
	t.Run("empty store yields an empty slice", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("FindAll", mock.Anything).Return([]content.Category{}, nil)

		items, err := NewCategoryService(repo).List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("FindAll", mock.Anything).Return(nil, errors.New("db down"))

		_, err := NewCategoryService(repo).List(context.Background())
		assert.EqualError(t, err, "db down")
	})
}

func TestCategoryService_Create(t *testing.T) {
	t.Run("assigns id and version", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *content.Category) bool {
			return c.Name == "Food Bank"
		})).Return(nil)

		resp, err := NewCategoryService(repo).Create(context.Background(), CategoryRequest{Name: "  Food Bank "})
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, 1, resp.Version)
		assert.Equal(t, "Food Bank", resp.Name)
		repo.AssertExpectations(t)
	})

	t.Run("rejects blank name without touching the store", func(t *testing.T) {
		repo := new(MockCategoryRepository)

		_, err := NewCategoryService(repo).Create(context.Background(), CategoryRequest{Name: "   "})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Fields[0].Field)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("passes id and version to the store", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Update", ctx, mock.MatchedBy(func(c *content.Category) bool {
			return c.ID == 3 && c.Version == 2 && c.Name == "News"
		})).Return(nil)

		err := NewCategoryService(repo).Update(ctx, 3, CategoryRequest{ID: 3, Name: "News", Version: 2})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("conflict on a vanished row is not found", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Update", ctx, mock.Anything).Return(shared.ErrConcurrencyConflict)
		repo.On("ExistsByID", ctx, int64(3)).Return(false, nil).Once()

		err := NewCategoryService(repo).Update(ctx, 3, CategoryRequest{ID: 3, Name: "News", Version: 2})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertExpectations(t)
	})

	t.Run("conflict on an existing row surfaces", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Update", ctx, mock.Anything).Return(shared.ErrConcurrencyConflict)
		repo.On("ExistsByID", ctx, int64(3)).Return(true, nil).Once()

		err := NewCategoryService(repo).Update(ctx, 3, CategoryRequest{ID: 3, Name: "News", Version: 1})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		repo.AssertNumberOfCalls(t, "ExistsByID", 1)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the removed category", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		existing := &content.Category{Name: "News"}
		existing.ID = 4
		existing.Version = 3
		repo.On("FindByID", ctx, int64(4)).Return(existing, nil)
		repo.On("DeleteByID", ctx, int64(4)).Return(nil)

		resp, err := NewCategoryService(repo).Delete(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, CategoryResponse{ID: 4, Name: "News", Version: 3}, *resp)
	})

	t.Run("missing category", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("FindByID", ctx, int64(4)).Return(nil, shared.ErrNotFound)

		_, err := NewCategoryService(repo).Delete(ctx, 4)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// ArticleService
// =============================================================================

func TestArticleService_Create(t *testing.T) {
	ctx := context.Background()
	published := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	t.Run("creates under an existing category", func(t *testing.T) {
		articles := new(MockArticleRepository)
		categories := new(MockCategoryRepository)
		categories.On("ExistsByID", ctx, int64(7)).Return(true, nil)
		articles.On("Create", ctx, mock.Anything).Return(nil)

		resp, err := NewArticleService(articles, categories).Create(ctx, ArticleRequest{
			Title:         "Drive",
			PublishedDate: published,
			CategoryID:    7,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.ID)
		assert.Equal(t, int64(7), resp.CategoryID)
		assert.True(t, published.Equal(resp.PublishedDate))
		assert.Equal(t, time.UTC, resp.PublishedDate.Location())
	})

	t.Run("missing category is a field error", func(t *testing.T) {
		articles := new(MockArticleRepository)
		categories := new(MockCategoryRepository)
		categories.On("ExistsByID", ctx, int64(99)).Return(false, nil)

		_, err := NewArticleService(articles, categories).Create(ctx, ArticleRequest{Title: "Drive", CategoryID: 99})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []shared.FieldError{{Field: "categoryId", Message: "refers to a record that does not exist"}}, verr.Fields)
		articles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("zero published date defaults to now", func(t *testing.T) {
		articles := new(MockArticleRepository)
		categories := new(MockCategoryRepository)
		categories.On("ExistsByID", ctx, int64(7)).Return(true, nil)
		articles.On("Create", ctx, mock.Anything).Return(nil)

		resp, err := NewArticleService(articles, categories).Create(ctx, ArticleRequest{Title: "Drive", CategoryID: 7})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), resp.PublishedDate, time.Minute)
	})
}

func TestArticleService_ListByCategory(t *testing.T) {
	ctx := context.Background()
	articles := new(MockArticleRepository)
	articles.On("FindByCategory", ctx, int64(5)).Return([]content.Article{}, nil)

	items, err := NewArticleService(articles, new(MockCategoryRepository)).ListByCategory(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestArticleService_Update_ChecksCategory(t *testing.T) {
	ctx := context.Background()
	articles := new(MockArticleRepository)
	categories := new(MockCategoryRepository)
	categories.On("ExistsByID", ctx, int64(8)).Return(false, nil)

	err := NewArticleService(articles, categories).Update(ctx, 2, ArticleRequest{ID: 2, Title: "T", CategoryID: 8})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	articles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
