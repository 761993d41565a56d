package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	appcontent "github.com/community/backend/internal/application/content"
	"github.com/community/backend/internal/infrastructure/logger"
	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEnv struct {
	client  *Client
	metrics *Metrics
	server  *httptest.Server
}

func newTestEnv(t *testing.T, handler http.HandlerFunc, breaker BreakerConfig) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	client, err := New(Config{
		BaseURL:    srv.URL + "/api",
		Timeout:    time.Second,
		CookieName: "csp_session",
		Breaker:    breaker,
		Metrics:    metrics,
		Transport:  &http.Transport{},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		srv.Close()
	})
	return &testEnv{client: client, metrics: metrics, server: srv}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url", CookieName: "c"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://127.0.0.1:8080/api"})
	assert.Error(t, err)
}

func TestResource_ForwardsSessionAndDecodes(t *testing.T) {
	var gotCookie, gotPath, gotRequestID string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		if c, err := r.Cookie("csp_session"); err == nil {
			gotCookie = c.Value
		}
		writeJSON(w, http.StatusOK, []appcontent.CategoryResponse{{ID: 1, Name: "Food"}})
	}, BreakerConfig{})

	categories := NewResource[appcontent.CategoryRequest, appcontent.CategoryResponse](env.client, "Category")
	items, err := categories.List(context.Background(), Session{Token: "tok-1"})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Food", items[0].Name)
	assert.Equal(t, "tok-1", gotCookie)
	assert.Equal(t, "/api/CategoryData/ListCategorys", gotPath)
	assert.Empty(t, gotRequestID)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(
		env.metrics.requests.WithLabelValues(http.MethodGet, "/CategoryData/ListCategorys", "success")))
}

func TestResource_AnonymousCallSendsNoCookie(t *testing.T) {
	var sawCookie atomic.Bool
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("csp_session"); err == nil {
			sawCookie.Store(true)
		}
		writeJSON(w, http.StatusOK, appcontent.CategoryResponse{ID: 3})
	}, BreakerConfig{})

	categories := NewResource[appcontent.CategoryRequest, appcontent.CategoryResponse](env.client, "Category")
	got, err := categories.Find(context.Background(), Session{}, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.False(t, sawCookie.Load())
}

func TestResource_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		check   func(t *testing.T, err error)
		outcome string
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotFound) },
			outcome: "not_found",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"),
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnauthorized) },
			outcome: "unauthorized",
		},
		{
			name:   "validation",
			status: http.StatusBadRequest,
			body: dto.NewValidationErrorResponse("Request validation failed", "r1", []dto.ValidationDetail{
				{Field: "categoryId", Message: "refers to a category that does not exist"},
			}),
			check: func(t *testing.T, err error) {
				var v *ValidationError
				require.ErrorAs(t, err, &v)
				assert.Equal(t, dto.ErrCodeValidation, v.Code)
				assert.Equal(t, map[string]string{"categoryId": "refers to a category that does not exist"}, v.ByField())
			},
			outcome: "invalid",
		},
		{
			name:    "server fault",
			status:  http.StatusInternalServerError,
			body:    dto.NewErrorResponse(dto.ErrCodeConcurrencyConflict, "conflict"),
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUpstreamUnavailable) },
			outcome: "error",
		},
		{
			name:    "unexpected status",
			status:  http.StatusConflict,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUpstreamUnavailable) },
			outcome: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}, BreakerConfig{})

			articles := NewResource[appcontent.ArticleRequest, appcontent.ArticleResponse](env.client, "Article")
			_, err := articles.Add(context.Background(), Session{Token: "t"}, appcontent.ArticleRequest{Title: "x", CategoryID: 9})

			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, 1.0, promtestutil.ToFloat64(
				env.metrics.requests.WithLabelValues(http.MethodPost, "/ArticleData/AddArticle", tt.outcome)))
		})
	}
}

func TestResource_UpdateSendsBody(t *testing.T) {
	var method, path string
	var body map[string]any
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.WriteHeader(http.StatusNoContent)
	}, BreakerConfig{})

	categories := NewResource[appcontent.CategoryRequest, appcontent.CategoryResponse](env.client, "Category")
	err := categories.Update(context.Background(), Session{Token: "t"}, 4, appcontent.CategoryRequest{ID: 4, Name: "Renamed", Version: 2})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/CategoryData/UpdateCategory/4", path)
	assert.Equal(t, "Renamed", body["name"])
	assert.EqualValues(t, 4, body["id"])
}

func TestClient_TransportFailure(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, BreakerConfig{})
	env.server.Close()

	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	categories := NewResource[appcontent.CategoryRequest, appcontent.CategoryResponse](env.client, "Category")
	_, err := categories.List(ctx, Session{})

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	// the calling page owns the error log
	assert.Zero(t, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, BreakerConfig{
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	})

	categories := NewResource[appcontent.CategoryRequest, appcontent.CategoryResponse](env.client, "Category")
	for range 2 {
		_, err := categories.List(context.Background(), Session{})
		require.ErrorIs(t, err, ErrUpstreamUnavailable)
	}
	require.Equal(t, gobreaker.StateOpen, env.client.BreakerState())

	_, err := categories.List(context.Background(), Session{})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2.0, promtestutil.ToFloat64(env.metrics.breakerState.WithLabelValues("community-api")))
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, BreakerConfig{MaxRequests: 1, Timeout: time.Minute, FailureThreshold: 0.5, MinRequests: 1})

	categories := NewResource[appcontent.CategoryRequest, appcontent.CategoryResponse](env.client, "Category")
	for range 3 {
		_, err := categories.Find(context.Background(), Session{}, 1)
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, env.client.BreakerState())
}

func TestClient_Login(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret-pass" {
			writeJSON(w, http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid email or password"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok", "expiresAt": time.Now().Add(time.Hour)})
	}, BreakerConfig{})

	res, err := env.client.Login(context.Background(), "a@example.org", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)

	_, err = env.client.Login(context.Background(), "a@example.org", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
