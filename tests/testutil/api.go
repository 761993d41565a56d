package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appidentity "github.com/community/backend/internal/application/identity"
	"github.com/community/backend/internal/bootstrap"
	"github.com/community/backend/internal/infrastructure/auth"
	"github.com/community/backend/internal/infrastructure/config"
	"github.com/community/backend/internal/interfaces/http/handler"
	"github.com/community/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// Test account seeded into every APIServer
const (
	AdminEmail    = "admin@example.org"
	AdminPassword = "correct-horse-battery-9"
)

// APIServer is the JSON API wired exactly as the server binary wires it
type APIServer struct {
	Engine   *gin.Engine
	Services handler.Services
	Auth     *appidentity.AuthService
	Cookie   *middleware.SessionCookie
	Config   *config.Config
	t        *testing.T
}

// TestConfig returns configuration suitable for in-process servers
func TestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "community-test", Env: "test"},
		JWT: config.JWTConfig{
			Secret:     "test-secret-that-is-long-enough-for-hs256",
			Expiration: time.Hour,
			Issuer:     "community-test",
		},
		Cookie: config.CookieConfig{Name: "csp_session", Path: "/", SameSite: "lax"},
		Auth: config.AuthConfig{
			AllowRegistration: true,
			AdminEmail:        AdminEmail,
			AdminPassword:     AdminPassword,
		},
	}
}

// NewAPIServer wires the API over db and seeds the admin account
func NewAPIServer(t *testing.T, db *gorm.DB) *APIServer {
	t.Helper()

	cfg := TestConfig()
	logger := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
	authService := bootstrap.NewAuthService(db, cfg, auth.NewInMemoryTokenBlacklist(), logger)
	_, err := authService.EnsureAdmin(t.Context(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	require.NoError(t, err, "Failed to seed admin")

	services := bootstrap.NewServices(db)
	cookie := middleware.NewSessionCookie(cfg.Cookie)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	bootstrap.RegisterAPI(engine, bootstrap.API{
		Services:    services,
		AuthService: authService,
		Cookie:      cookie,
		Logger:      logger,
	})

	return &APIServer{
		Engine:   engine,
		Services: services,
		Auth:     authService,
		Cookie:   cookie,
		Config:   cfg,
		t:        t,
	}
}

// Login signs the admin in and returns the session cookie
func (s *APIServer) Login() *http.Cookie {
	s.t.Helper()

	w := s.Request(http.MethodPost, "/api/Account/Login", map[string]string{
		"email":    AdminEmail,
		"password": AdminPassword,
	}, nil)
	require.Equal(s.t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == s.Cookie.Name() {
			return c
		}
	}
	s.t.Fatal("login did not set the session cookie")
	return nil
}

// Request performs a request against the engine, sending cookie when set
func (s *APIServer) Request(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()

	req := httptest.NewRequest(method, path, ToJSONReader(s.t, body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}
