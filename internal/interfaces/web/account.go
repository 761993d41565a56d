package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/community/backend/internal/infrastructure/logger"
	"github.com/community/backend/internal/interfaces/web/apiclient"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginForm renders the sign-in page
func (p *Pages) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", loginView{
		Page:      p.page(c, "Sign in"),
		ReturnURL: safeReturnURL(c.Query("returnUrl")),
	})
}

// Login signs in through the API and stores the returned token in the
// visitor's cookie
func (p *Pages) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	returnURL := safeReturnURL(c.PostForm("returnUrl"))

	view := loginView{Page: p.page(c, "Sign in"), Email: email, ReturnURL: returnURL}
	if email == "" || password == "" {
		view.Error = "Enter your email and password."
		c.HTML(http.StatusBadRequest, "login.html", view)
		return
	}

	result, err := p.client.Login(c.Request.Context(), email, password)
	if err != nil {
		var validation *apiclient.ValidationError
		switch {
		case errors.Is(err, apiclient.ErrUnauthorized):
			view.Error = "Invalid email or password."
			c.HTML(http.StatusUnauthorized, "login.html", view)
		case errors.As(err, &validation):
			view.Error = validation.Message
			c.HTML(http.StatusBadRequest, "login.html", view)
		default:
			p.fail(c, err)
		}
		return
	}

	p.cookie.Set(c, result.Token, result.ExpiresAt)
	logger.GetGinLogger(c).Info("Signed in", zap.Int64("user_id", result.User.ID))
	c.Redirect(http.StatusSeeOther, returnURL)
}

// Logout ends the session and clears the cookie. A session the API no
// longer knows is already over.
func (p *Pages) Logout(c *gin.Context) {
	sess := p.session(c)
	if !sess.Anonymous() {
		err := p.client.Logout(c.Request.Context(), sess)
		if err != nil && !errors.Is(err, apiclient.ErrUnauthorized) {
			p.fail(c, err)
			return
		}
	}
	p.cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, "/")
}
