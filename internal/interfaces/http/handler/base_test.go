package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/community/backend/internal/domain/shared"
	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/community/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.RequestIDKey, "req-1")
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		emptyBody  bool
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "", true},
		{"wrapped not found", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, "", true},
		{"conflict", shared.ErrConcurrencyConflict, http.StatusInternalServerError, dto.ErrCodeConcurrencyConflict, false},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized, false},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, false},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeValidation, false},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, dto.ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/x", "")

			h.HandleError(c, tt.err)
			// the engine flushes a status-only response after the handler returns
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.emptyBody {
				assert.Empty(t, w.Body.String())
				return
			}
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_HidesInternalDetail(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/x", "")

	h.HandleError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}

func TestBaseHandler_HandleError_ValidationDetails(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodPost, "/x", "")

	v := shared.NewValidationError("donorId", "refers to a donor that does not exist")
	v.Add("companyId", "refers to a company that does not exist")
	h.HandleError(c, fmt.Errorf("create donation: %w", v))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, []dto.ValidationDetail{
		{Field: "donorId", Message: "refers to a donor that does not exist"},
		{Field: "companyId", Message: "refers to a company that does not exist"},
	}, resp.Error.Details)
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/x", "")

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
	assert.False(t, c.Writer.Written())
}

func TestBaseHandler_ParseID(t *testing.T) {
	tests := []struct {
		param  string
		wantID int64
		wantOK bool
	}{
		{"7", 7, true},
		{"abc", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run("id="+tt.param, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/x", "")
			c.Params = gin.Params{{Key: "id", Value: tt.param}}

			id, ok := h.ParseID(c, "id")
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			if !ok {
				assert.Equal(t, http.StatusNotFound, w.Code)
				assert.Empty(t, w.Body.String())
			}
		})
	}
}

func TestBaseHandler_NotFoundThroughEngine(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/api/CategoryData/FindCategory/:id", func(c *gin.Context) {
		if _, ok := h.ParseID(c, "id"); !ok {
			return
		}
		h.HandleError(c, fmt.Errorf("find category: %w", shared.ErrNotFound))
	})

	for _, target := range []string{"/api/CategoryData/FindCategory/abc", "/api/CategoryData/FindCategory/7"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Empty(t, w.Body.String(), target)
	}
}

type bindTarget struct {
	Name  string `json:"name" binding:"required,max=5"`
	Count int    `json:"count"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h := &BaseHandler{}
		c, _ := newTestContext(http.MethodPost, "/x", `{"name":"ok","count":2}`)

		var got bindTarget
		require.True(t, h.BindJSON(c, &got))
		assert.Equal(t, bindTarget{Name: "ok", Count: 2}, got)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodPost, "/x", `{"name":"toolongname"}`)

		var got bindTarget
		require.False(t, h.BindJSON(c, &got))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodPost, "/x", `{"name":`)

		var got bindTarget
		require.False(t, h.BindJSON(c, &got))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeError(t, w).Error.Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodPost, "/x", `{"name":"ok","count":"two"}`)

		var got bindTarget
		require.False(t, h.BindJSON(c, &got))
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeError(t, w).Error.Code)
	})
}
