package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appcontent "github.com/community/backend/internal/application/content"
	"github.com/community/backend/internal/domain/shared"
	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/community/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCategoryService keeps categories in a map and records calls
type stubCategoryService struct {
	items     map[int64]appcontent.CategoryResponse
	nextID    int64
	updateErr error
	updated   []appcontent.CategoryRequest
	created   int
}

func newStubCategoryService(items ...appcontent.CategoryResponse) *stubCategoryService {
	s := &stubCategoryService{items: map[int64]appcontent.CategoryResponse{}, nextID: 1}
	for _, it := range items {
		s.items[it.ID] = it
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	return s
}

func (s *stubCategoryService) List(context.Context) ([]appcontent.CategoryResponse, error) {
	out := make([]appcontent.CategoryResponse, 0, len(s.items))
	for id := int64(1); id < s.nextID; id++ {
		if it, ok := s.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubCategoryService) GetByID(_ context.Context, id int64) (*appcontent.CategoryResponse, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &it, nil
}

func (s *stubCategoryService) Create(_ context.Context, req appcontent.CategoryRequest) (*appcontent.CategoryResponse, error) {
	s.created++
	it := appcontent.CategoryResponse{ID: s.nextID, Name: req.Name, Description: req.Description, Version: 1}
	s.items[it.ID] = it
	s.nextID++
	return &it, nil
}

func (s *stubCategoryService) Update(_ context.Context, id int64, req appcontent.CategoryRequest) error {
	s.updated = append(s.updated, req)
	if s.updateErr != nil {
		return s.updateErr
	}
	it, ok := s.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	it.Name = req.Name
	it.Description = req.Description
	it.Version++
	s.items[id] = it
	return nil
}

func (s *stubCategoryService) Delete(_ context.Context, id int64) (*appcontent.CategoryResponse, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	delete(s.items, id)
	return &it, nil
}

// allowAll stands in for RequireAuth
func allowAll(c *gin.Context) { c.Next() }

func denyAll(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
}

func newCategoryEngine(svc *stubCategoryService, requireAuth gin.HandlerFunc) *gin.Engine {
	h := NewEntityHandler(EntityConfig[appcontent.CategoryRequest, appcontent.CategoryResponse]{
		Entity:      "Category",
		ListAliases: []string{"ListCategories"},
		Service:     svc,
		ResponseID:  func(r *appcontent.CategoryResponse) int64 { return r.ID },
		Lookups: []Lookup[appcontent.CategoryResponse]{{
			Name: "ListCategoriesNamed",
			Fetch: func(_ context.Context, id int64) ([]appcontent.CategoryResponse, error) {
				if it, ok := svc.items[id]; ok {
					return []appcontent.CategoryResponse{it}, nil
				}
				return nil, nil
			},
		}},
	})

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Register(h.Routes(requireAuth))
	r.Setup()
	return engine
}

func do(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestEntityHandler_ListEmpty(t *testing.T) {
	engine := newCategoryEngine(newStubCategoryService(), allowAll)

	for _, target := range []string{"/api/CategoryData/ListCategorys", "/api/CategoryData/ListCategories"} {
		w := do(engine, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.JSONEq(t, `[]`, w.Body.String(), target)
	}
}

func TestEntityHandler_Find(t *testing.T) {
	svc := newStubCategoryService(appcontent.CategoryResponse{ID: 7, Name: "Housing", Version: 1})
	engine := newCategoryEngine(svc, allowAll)

	t.Run("found", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/api/CategoryData/FindCategory/7", "")
		require.Equal(t, http.StatusOK, w.Code)
		var got appcontent.CategoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Housing", got.Name)
	})

	t.Run("missing is an empty 404", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/api/CategoryData/FindCategory/8", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("non-numeric id is 404", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/api/CategoryData/FindCategory/seven", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestEntityHandler_Add(t *testing.T) {
	t.Run("created with location", func(t *testing.T) {
		svc := newStubCategoryService()
		engine := newCategoryEngine(svc, allowAll)

		w := do(engine, http.MethodPost, "/api/CategoryData/AddCategory", `{"name":"Food","description":"Pantries"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/CategoryData/FindCategory/1", w.Header().Get("Location"))
		var got appcontent.CategoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("invalid payload lists field errors", func(t *testing.T) {
		svc := newStubCategoryService()
		engine := newCategoryEngine(svc, allowAll)

		w := do(engine, http.MethodPost, "/api/CategoryData/AddCategory", `{"description":"no name"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.NotEmpty(t, resp.Error.Details)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
		assert.Zero(t, svc.created)
	})

	t.Run("unauthenticated write is rejected", func(t *testing.T) {
		svc := newStubCategoryService()
		engine := newCategoryEngine(svc, denyAll)

		w := do(engine, http.MethodPost, "/api/CategoryData/AddCategory", `{"name":"Food"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Zero(t, svc.created)
	})

	t.Run("reads stay anonymous", func(t *testing.T) {
		engine := newCategoryEngine(newStubCategoryService(), denyAll)

		w := do(engine, http.MethodGet, "/api/CategoryData/ListCategorys", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestEntityHandler_Update(t *testing.T) {
	seed := appcontent.CategoryResponse{ID: 7, Name: "Housing", Version: 1}

	t.Run("no content on success for PUT and POST", func(t *testing.T) {
		svc := newStubCategoryService(seed)
		engine := newCategoryEngine(svc, allowAll)

		w := do(engine, http.MethodPut, "/api/CategoryData/UpdateCategory/7", `{"id":7,"name":"Shelter"}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		w = do(engine, http.MethodPost, "/api/CategoryData/UpdateCategory/7", `{"id":7,"name":"Shelters","version":2}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "Shelters", svc.items[7].Name)
		require.Len(t, svc.updated, 2)
		assert.Equal(t, 2, svc.updated[1].Version)
	})

	t.Run("id mismatch is checked before validation", func(t *testing.T) {
		svc := newStubCategoryService(seed)
		engine := newCategoryEngine(svc, allowAll)

		w := do(engine, http.MethodPut, "/api/CategoryData/UpdateCategory/7", `{"id":8}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeIDMismatch, resp.Error.Code)
		assert.Empty(t, svc.updated)
	})

	t.Run("missing record is 404", func(t *testing.T) {
		engine := newCategoryEngine(newStubCategoryService(), allowAll)

		w := do(engine, http.MethodPut, "/api/CategoryData/UpdateCategory/9", `{"id":9,"name":"Ghost"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("concurrency conflict is a server error", func(t *testing.T) {
		svc := newStubCategoryService(seed)
		svc.updateErr = shared.ErrConcurrencyConflict
		engine := newCategoryEngine(svc, allowAll)

		w := do(engine, http.MethodPut, "/api/CategoryData/UpdateCategory/7", `{"id":7,"name":"Late","version":1}`)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeConcurrencyConflict, resp.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		engine := newCategoryEngine(newStubCategoryService(seed), allowAll)

		w := do(engine, http.MethodPut, "/api/CategoryData/UpdateCategory/7", `{"id":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEntityHandler_Delete(t *testing.T) {
	svc := newStubCategoryService(appcontent.CategoryResponse{ID: 3, Name: "Legal", Version: 4})
	engine := newCategoryEngine(svc, allowAll)

	w := do(engine, http.MethodDelete, "/api/CategoryData/DeleteCategory/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":3,"name":"Legal","description":"","version":4}`, w.Body.String())

	w = do(engine, http.MethodPost, "/api/CategoryData/DeleteCategory/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(engine, http.MethodGet, "/api/CategoryData/FindCategory/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntityHandler_Lookup(t *testing.T) {
	engine := newCategoryEngine(newStubCategoryService(appcontent.CategoryResponse{ID: 2, Name: "Jobs"}), allowAll)

	w := do(engine, http.MethodGet, "/api/CategoryData/ListCategoriesNamed/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []appcontent.CategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Jobs", got[0].Name)

	for _, target := range []string{
		"/api/CategoryData/ListCategoriesNamed/99",
		"/api/CategoryData/ListCategoriesNamed/abc",
	} {
		w := do(engine, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.JSONEq(t, `[]`, w.Body.String(), target)
	}
}
