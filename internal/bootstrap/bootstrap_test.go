package bootstrap_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	appcontent "github.com/community/backend/internal/application/content"
	appemployment "github.com/community/backend/internal/application/employment"
	appfundraising "github.com/community/backend/internal/application/fundraising"
	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/community/backend/tests/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*testutil.APIServer, *http.Cookie) {
	t.Helper()
	db := testutil.NewSQLiteDatabase(t)
	srv := testutil.NewAPIServer(t, db.DB)
	return srv, srv.Login()
}

func addCategory(t *testing.T, srv *testutil.APIServer, cookie *http.Cookie, name string) appcontent.CategoryResponse {
	t.Helper()
	w := srv.Request(http.MethodPost, "/api/CategoryData/AddCategory", map[string]any{"name": name}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.JSONResponseAs[appcontent.CategoryResponse](t, w.Body.Bytes())
}

func TestAPI_ListOnEmptyStore(t *testing.T) {
	srv, _ := newServer(t)

	for _, target := range []string{
		"/api/ArticleData/ListArticles",
		"/api/CategoryData/ListCategories",
		"/api/JobData/ListJobs",
		"/api/DonationData/ListDonations",
	} {
		w := srv.Request(http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.JSONEq(t, `[]`, w.Body.String(), target)
	}
}

func TestAPI_CategoryDeleteCascadesToArticles(t *testing.T) {
	srv, cookie := newServer(t)

	for i := 1; i <= 6; i++ {
		addCategory(t, srv, cookie, fmt.Sprintf("Seed %d", i))
	}
	category := addCategory(t, srv, cookie, "Food Bank")
	require.Equal(t, int64(7), category.ID)

	w := srv.Request(http.MethodPost, "/api/ArticleData/AddArticle", map[string]any{
		"title":      "Drive",
		"categoryId": 7,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	article := testutil.JSONResponseAs[appcontent.ArticleResponse](t, w.Body.Bytes())
	assert.Equal(t, fmt.Sprintf("/api/ArticleData/FindArticle/%d", article.ID), w.Header().Get("Location"))

	w = srv.Request(http.MethodPost, "/api/CategoryData/DeleteCategory/7", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.Request(http.MethodGet, fmt.Sprintf("/api/ArticleData/FindArticle/%d", article.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAPI_ArticleDeleteCascadesToJobs(t *testing.T) {
	srv, cookie := newServer(t)
	category := addCategory(t, srv, cookie, "Employment")

	w := srv.Request(http.MethodPost, "/api/ArticleData/AddArticle", map[string]any{"title": "Hiring", "categoryId": category.ID}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	article := testutil.JSONResponseAs[appcontent.ArticleResponse](t, w.Body.Bytes())

	w = srv.Request(http.MethodPost, "/api/CompanyData/AddCompany", map[string]any{"name": "Acme"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	company := testutil.JSONResponseAs[appemployment.CompanyResponse](t, w.Body.Bytes())

	w = srv.Request(http.MethodPost, "/api/JobCategoryData/AddJobCategory", map[string]any{"name": "Trades"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	jobCategory := testutil.JSONResponseAs[appemployment.JobCategoryResponse](t, w.Body.Bytes())

	w = srv.Request(http.MethodPost, "/api/JobData/AddJob", map[string]any{
		"title":         "Carpenter",
		"companyId":     company.ID,
		"jobCategoryId": jobCategory.ID,
		"articleId":     article.ID,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := testutil.JSONResponseAs[appemployment.JobResponse](t, w.Body.Bytes())

	w = srv.Request(http.MethodGet, fmt.Sprintf("/api/JobData/ListJobsForCompany/%d", company.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.JSONResponseAs[[]appemployment.JobResponse](t, w.Body.Bytes()), 1)

	w = srv.Request(http.MethodDelete, fmt.Sprintf("/api/ArticleData/DeleteArticle/%d", article.ID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.Request(http.MethodGet, fmt.Sprintf("/api/JobData/FindJob/%d", job.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_AddThenFindRoundTrip(t *testing.T) {
	srv, cookie := newServer(t)
	category := addCategory(t, srv, cookie, "Housing")

	published := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	w := srv.Request(http.MethodPost, "/api/ArticleData/AddArticle", map[string]any{
		"title":         "Winter shelter",
		"content":       "Open nightly from December.",
		"publishedDate": published,
		"categoryId":    category.ID,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	created := testutil.JSONResponseAs[appcontent.ArticleResponse](t, w.Body.Bytes())

	w = srv.Request(http.MethodGet, fmt.Sprintf("/api/ArticleData/FindArticle/%d", created.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := testutil.JSONResponseAs[appcontent.ArticleResponse](t, w.Body.Bytes())

	want := appcontent.ArticleResponse{
		ID:            created.ID,
		Title:         "Winter shelter",
		Content:       "Open nightly from December.",
		PublishedDate: published,
		CategoryID:    category.ID,
		Version:       1,
	}
	if diff := cmp.Diff(want, found, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("FindArticle mismatch (-want +got):\n%s", diff)
	}
}

func TestAPI_UpdateRules(t *testing.T) {
	srv, cookie := newServer(t)
	category := addCategory(t, srv, cookie, "Legal")
	path := fmt.Sprintf("/api/CategoryData/UpdateCategory/%d", category.ID)

	t.Run("mismatched id", func(t *testing.T) {
		w := srv.Request(http.MethodPut, path, map[string]any{"id": category.ID + 1, "name": "Legal aid"}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertErrorResponse(t, w.Body.Bytes(), dto.ErrCodeIDMismatch)
	})

	t.Run("mismatched id wins over invalid payload", func(t *testing.T) {
		w := srv.Request(http.MethodPut, path, map[string]any{"id": category.ID + 1}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertErrorResponse(t, w.Body.Bytes(), dto.ErrCodeIDMismatch)
	})

	t.Run("success bumps the version", func(t *testing.T) {
		w := srv.Request(http.MethodPut, path, map[string]any{"id": category.ID, "name": "Legal aid", "version": 1}, cookie)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = srv.Request(http.MethodGet, fmt.Sprintf("/api/CategoryData/FindCategory/%d", category.ID), nil, nil)
		got := testutil.JSONResponseAs[appcontent.CategoryResponse](t, w.Body.Bytes())
		assert.Equal(t, "Legal aid", got.Name)
		assert.Equal(t, 2, got.Version)
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		w := srv.Request(http.MethodPost, path, map[string]any{"id": category.ID, "name": "Late", "version": 1}, cookie)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		testutil.AssertErrorResponse(t, w.Body.Bytes(), dto.ErrCodeConcurrencyConflict)
	})

	t.Run("vanished record is not found", func(t *testing.T) {
		w := srv.Request(http.MethodPut, "/api/CategoryData/UpdateCategory/999", map[string]any{"id": 999, "name": "Ghost"}, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAPI_DeleteTwice(t *testing.T) {
	srv, cookie := newServer(t)
	category := addCategory(t, srv, cookie, "Temporary")
	path := fmt.Sprintf("/api/CategoryData/DeleteCategory/%d", category.ID)

	w := srv.Request(http.MethodPost, path, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, category, testutil.JSONResponseAs[appcontent.CategoryResponse](t, w.Body.Bytes()))

	w = srv.Request(http.MethodPost, path, nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_WritesRequireSession(t *testing.T) {
	srv, _ := newServer(t)

	w := srv.Request(http.MethodPost, "/api/CategoryData/AddCategory", map[string]any{"name": "Anon"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	testutil.AssertErrorResponse(t, w.Body.Bytes(), dto.ErrCodeUnauthorized)

	w = srv.Request(http.MethodGet, "/api/CategoryData/ListCategories", nil, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAPI_LogoutRevokesSession(t *testing.T) {
	srv, cookie := newServer(t)

	w := srv.Request(http.MethodPost, "/api/Account/Logout", nil, cookie)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = srv.Request(http.MethodPost, "/api/CategoryData/AddCategory", map[string]any{"name": "After"}, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_DonationReferences(t *testing.T) {
	srv, cookie := newServer(t)

	w := srv.Request(http.MethodPost, "/api/CampaignData/AddCampaign", map[string]any{"name": "Spring drive", "goal": "5000"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	campaign := testutil.JSONResponseAs[appfundraising.CampaignResponse](t, w.Body.Bytes())

	w = srv.Request(http.MethodPost, "/api/CompanyData/AddCompany", map[string]any{"name": "Acme"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	company := testutil.JSONResponseAs[appemployment.CompanyResponse](t, w.Body.Bytes())

	t.Run("missing donor is a field error", func(t *testing.T) {
		w := srv.Request(http.MethodPost, "/api/DonationData/AddDonation", map[string]any{
			"donationAmount": "25.00",
			"donorId":        404,
			"campaignId":     campaign.ID,
			"companyId":      company.ID,
		}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		testutil.AssertFieldError(t, w.Body.Bytes(), "donorId")
	})

	t.Run("resolved names", func(t *testing.T) {
		w := srv.Request(http.MethodPost, "/api/DonorData/AddDonor", map[string]any{"name": "Ada"}, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
		donor := testutil.JSONResponseAs[appfundraising.DonorResponse](t, w.Body.Bytes())

		w = srv.Request(http.MethodPost, "/api/DonationData/AddDonation", map[string]any{
			"donationAmount": "25.50",
			"donorId":        donor.ID,
			"campaignId":     campaign.ID,
			"companyId":      company.ID,
		}, cookie)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		donation := testutil.JSONResponseAs[appfundraising.DonationResponse](t, w.Body.Bytes())
		assert.Equal(t, "Ada", donation.DonorName)
		assert.Equal(t, "Spring drive", donation.CampaignName)
		assert.Equal(t, "Acme", donation.CompanyName)
		assert.True(t, decimal.RequireFromString("25.50").Equal(donation.DonationAmount))

		w = srv.Request(http.MethodGet, fmt.Sprintf("/api/DonationData/ListDonationsForDonor/%d", donor.ID), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, testutil.JSONResponseAs[[]appfundraising.DonationResponse](t, w.Body.Bytes()), 1)
	})
}

func TestAPI_Account(t *testing.T) {
	srv, _ := newServer(t)

	t.Run("register then login", func(t *testing.T) {
		w := srv.Request(http.MethodPost, "/api/Account/Register", map[string]any{
			"email":       "Volunteer@Example.org",
			"displayName": "Volunteer",
			"password":    "long-enough-pass-7",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = srv.Request(http.MethodPost, "/api/Account/Login", map[string]any{
			"email":    "volunteer@example.org",
			"password": "long-enough-pass-7",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.JSONResponseAs[map[string]any](t, w.Body.Bytes())
		assert.NotEmpty(t, body["token"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := srv.Request(http.MethodPost, "/api/Account/Register", map[string]any{
			"email":       testutil.AdminEmail,
			"displayName": "Impostor",
			"password":    "long-enough-pass-7",
		}, nil)
		require.Equal(t, http.StatusConflict, w.Code)
		testutil.AssertErrorResponse(t, w.Body.Bytes(), dto.ErrCodeAlreadyExists)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := srv.Request(http.MethodPost, "/api/Account/Login", map[string]any{
			"email":    testutil.AdminEmail,
			"password": "nope-nope-nope",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("me without session", func(t *testing.T) {
		w := srv.Request(http.MethodGet, "/api/Account/Me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("anonymous logout clears the cookie", func(t *testing.T) {
		w := srv.Request(http.MethodPost, "/api/Account/Logout", nil, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "csp_session", cookies[0].Name)
		assert.Negative(t, cookies[0].MaxAge)
	})
}
