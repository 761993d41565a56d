package content

import (
	"context"
	"time"

	"github.com/community/backend/internal/domain/content"
	"github.com/community/backend/internal/domain/shared"
)

// ArticleService handles article operations
type ArticleService struct {
	articleRepo  content.ArticleRepository
	categoryRepo content.CategoryRepository
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo content.ArticleRepository, categoryRepo content.CategoryRepository) *ArticleService {
	return &ArticleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
	}
}

// List returns every article
func (s *ArticleService) List(ctx context.Context) ([]ArticleResponse, error) {
	items, err := s.articleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToArticleResponses(items), nil
}

// ListByCategory returns the articles filed under a category
func (s *ArticleService) ListByCategory(ctx context.Context, categoryID int64) ([]ArticleResponse, error) {
	items, err := s.articleRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return ToArticleResponses(items), nil
}

// GetByID returns one article
func (s *ArticleService) GetByID(ctx context.Context, id int64) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToArticleResponse(article)
	return &response, nil
}

// Create adds an article under an existing category
func (s *ArticleService) Create(ctx context.Context, req ArticleRequest) (*ArticleResponse, error) {
	article, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	response := ToArticleResponse(article)
	return &response, nil
}

// Update replaces the article's fields
func (s *ArticleService) Update(ctx context.Context, id int64, req ArticleRequest) error {
	article, err := s.build(ctx, req)
	if err != nil {
		return err
	}
	article.ID = id
	article.Version = req.Version

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return shared.ResolveUpdateError(ctx, s.articleRepo, id, err)
	}
	return nil
}

// Delete removes an article with its jobs and returns what was removed
func (s *ArticleService) Delete(ctx context.Context, id int64) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	response := ToArticleResponse(article)
	return &response, nil
}

func (s *ArticleService) build(ctx context.Context, req ArticleRequest) (*content.Article, error) {
	published := req.PublishedDate
	if published.IsZero() {
		published = time.Now()
	}

	article, err := content.NewArticle(req.Title, req.Content, published.UTC(), req.CategoryID)
	if err != nil {
		return nil, err
	}

	v := &shared.ValidationError{}
	if err := shared.CheckReference(ctx, v, "categoryId", article.CategoryID, s.categoryRepo); err != nil {
		return nil, err
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return article, nil
}
