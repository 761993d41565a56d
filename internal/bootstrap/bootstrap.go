// Package bootstrap assembles repositories, application services and the
// HTTP API so the server binary and the end-to-end tests share one wiring.
package bootstrap

import (
	appcontent "github.com/community/backend/internal/application/content"
	appemployment "github.com/community/backend/internal/application/employment"
	appfundraising "github.com/community/backend/internal/application/fundraising"
	appidentity "github.com/community/backend/internal/application/identity"
	"github.com/community/backend/internal/infrastructure/auth"
	"github.com/community/backend/internal/infrastructure/config"
	"github.com/community/backend/internal/infrastructure/persistence"
	"github.com/community/backend/internal/interfaces/http/handler"
	"github.com/community/backend/internal/interfaces/http/middleware"
	"github.com/community/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewServices builds the resource services over db
func NewServices(db *gorm.DB) handler.Services {
	categories := persistence.NewGormCategoryRepository(db)
	articles := persistence.NewGormArticleRepository(db)
	companies := persistence.NewGormCompanyRepository(db)
	jobCategories := persistence.NewGormJobCategoryRepository(db)
	jobs := persistence.NewGormJobRepository(db)
	donors := persistence.NewGormDonorRepository(db)
	campaigns := persistence.NewGormCampaignRepository(db)
	donations := persistence.NewGormDonationRepository(db)

	return handler.Services{
		Categories:    appcontent.NewCategoryService(categories),
		Articles:      appcontent.NewArticleService(articles, categories),
		Companies:     appemployment.NewCompanyService(companies),
		JobCategories: appemployment.NewJobCategoryService(jobCategories),
		Jobs:          appemployment.NewJobService(jobs, companies, jobCategories, articles),
		Donors:        appfundraising.NewDonorService(donors),
		Campaigns:     appfundraising.NewCampaignService(campaigns),
		Donations:     appfundraising.NewDonationService(donations, donors, campaigns, companies),
	}
}

// NewAuthService builds the account service over db
func NewAuthService(db *gorm.DB, cfg *config.Config, blacklist auth.TokenBlacklist, logger *zap.Logger) *appidentity.AuthService {
	return appidentity.NewAuthService(
		persistence.NewGormUserRepository(db),
		persistence.NewGormSessionRepository(db),
		auth.NewJWTService(cfg.JWT),
		blacklist,
		appidentity.AuthServiceConfig{
			AllowRegistration: cfg.Auth.AllowRegistration,
			SessionTTL:        cfg.JWT.Expiration,
		},
		logger,
	)
}

// API holds what the JSON API needs beyond the resource services
type API struct {
	Services    handler.Services
	AuthService *appidentity.AuthService
	Cookie      *middleware.SessionCookie
	Logger      *zap.Logger
	// LoginLimiter throttles sign-in attempts per client; nil disables it
	LoginLimiter *middleware.RateLimiter
	// Middleware runs on every API route
	Middleware []gin.HandlerFunc
	// Extra groups mounted alongside the resources, such as system routes
	Extra []router.RouteRegistrar
}

// RegisterAPI mounts the account and resource routes under /api
func RegisterAPI(engine *gin.Engine, api API) *router.Router {
	authCfg := middleware.AuthConfig{
		Authenticator: api.AuthService,
		CookieName:    api.Cookie.Name(),
		Logger:        api.Logger,
	}
	requireAuth := middleware.RequireAuth(authCfg)

	var loginLimit gin.HandlerFunc
	if api.LoginLimiter != nil {
		loginLimit = middleware.RateLimit(api.LoginLimiter)
	}

	r := router.NewRouter(engine, router.WithMiddleware(api.Middleware...))
	r.Register(handler.NewAccountHandler(api.AuthService, api.Cookie).Routes(handler.AccountRoutes{
		RequireAuth:  requireAuth,
		OptionalAuth: middleware.OptionalAuth(authCfg),
		LoginLimit:   loginLimit,
	}))
	for _, g := range handler.ResourceRoutes(api.Services, requireAuth) {
		r.Register(g)
	}
	r.Register(api.Extra...)
	r.Setup()
	return r
}
