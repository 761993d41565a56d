package handler

import (
	"net/http"

	appidentity "github.com/community/backend/internal/application/identity"
	"github.com/community/backend/internal/interfaces/http/middleware"
	"github.com/community/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles registration, sign-in and sign-out
type AccountHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookie      *middleware.SessionCookie
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(authService *appidentity.AuthService, cookie *middleware.SessionCookie) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// AccountRoutes holds the middleware the account routes need
type AccountRoutes struct {
	RequireAuth  gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	// LoginLimit throttles sign-in attempts; nil disables throttling
	LoginLimit gin.HandlerFunc
}

// Routes builds the /Account route group
func (h *AccountHandler) Routes(mw AccountRoutes) *router.DomainGroup {
	g := router.NewDomainGroup("account", "/Account")
	g.POST("/Register", h.Register)
	if mw.LoginLimit != nil {
		g.POST("/Login", mw.LoginLimit, h.Login)
	} else {
		g.POST("/Login", h.Login)
	}
	g.POST("/Logout", mw.OptionalAuth, h.Logout)
	g.GET("/Me", mw.RequireAuth, h.Me)
	return g
}

// Register godoc
// @Summary      Register an account
// @Description  Creates an account when registration is enabled
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request body appidentity.RegisterRequest true "Account details"
// @Success      201 {object} appidentity.UserResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /Account/Register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req appidentity.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login godoc
// @Summary      Sign in
// @Description  Verifies credentials, opens a session and sets the session cookie
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LoginRequest true "Credentials"
// @Success      200 {object} appidentity.LoginResult
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /Account/Login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, result)
}

// Logout godoc
// @Summary      Sign out
// @Description  Ends the current session, if any, and clears the session cookie
// @Tags         account
// @Success      204
// @Router       /Account/Logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	if p := middleware.GetPrincipal(c); p != nil {
		if err := h.authService.Logout(c.Request.Context(), p); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.cookie.Clear(c)
	h.NoContent(c)
}

// Me godoc
// @Summary      Current account
// @Tags         account
// @Produce      json
// @Success      200 {object} appidentity.UserResponse
// @Failure      401 {object} ErrorResponse
// @Security     CookieAuth
// @Router       /Account/Me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
