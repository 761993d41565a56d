// Package web serves the server-rendered pages. Pages never touch the
// database; every read and write goes through the JSON API via apiclient,
// carrying the visitor's session cookie.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/community/backend/internal/infrastructure/logger"
	"github.com/community/backend/internal/interfaces/http/middleware"
	"github.com/community/backend/internal/interfaces/web/apiclient"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoginPath is where visitors without a session are sent
const LoginPath = "/Account/Login"

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"lower": strings.ToLower,
	}).ParseFS(templateFS, "templates/*.html")
}

// Pages holds what every page handler shares
type Pages struct {
	api     apiclient.Resources
	client  *apiclient.Client
	cookie  *middleware.SessionCookie
	appName string
	logger  *zap.Logger
}

// Config configures the page tier
type Config struct {
	Client  *apiclient.Client
	Cookie  *middleware.SessionCookie
	AppName string
	Logger  *zap.Logger
}

// New creates the page tier
func New(cfg Config) *Pages {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.AppName == "" {
		cfg.AppName = "Community Support"
	}
	return &Pages{
		api:     apiclient.NewResources(cfg.Client),
		client:  cfg.Client,
		cookie:  cfg.Cookie,
		appName: cfg.AppName,
		logger:  cfg.Logger,
	}
}

// Register installs the templates and every page route on engine
func (p *Pages) Register(engine *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/Article/List")
	})

	account := engine.Group("/Account")
	account.GET("/Login", p.LoginForm)
	account.POST("/Login", p.Login)
	account.POST("/Logout", p.Logout)

	requireSession := p.RequireSession()
	for _, pages := range p.entities() {
		pages.routes(engine, requireSession)
	}

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		p.notFound(c)
	})
	return nil
}

// RequireSession sends visitors without a session cookie to the login page
func (p *Pages) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p.session(c).Anonymous() {
			p.redirectToLogin(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// session reads the visitor's token from the inbound cookie
func (p *Pages) session(c *gin.Context) apiclient.Session {
	token, err := c.Cookie(p.cookie.Name())
	if err != nil {
		return apiclient.Session{}
	}
	return apiclient.Session{Token: token}
}

func (p *Pages) page(c *gin.Context, title string) Page {
	return Page{
		AppName:  p.appName,
		Title:    title,
		SignedIn: !p.session(c).Anonymous(),
	}
}

func (p *Pages) redirectToLogin(c *gin.Context) {
	target := LoginPath + "?returnUrl=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusSeeOther, target)
}

// fail renders the page for an API outcome other than success
func (p *Pages) fail(c *gin.Context, err error) {
	var validation *apiclient.ValidationError
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		p.notFound(c)
	case errors.Is(err, apiclient.ErrUnauthorized):
		p.redirectToLogin(c)
	case errors.As(err, &validation):
		c.HTML(http.StatusBadRequest, "error.html", errorView{
			Page:      p.page(c, "Request rejected"),
			Message:   "The request could not be completed.",
			RequestID: middleware.GetRequestID(c),
		})
	default:
		logger.GetGinLogger(c).Error("Page could not reach the API", zap.Error(err))
		c.HTML(http.StatusBadGateway, "error.html", errorView{
			Page:      p.page(c, "Error"),
			Message:   "The service is temporarily unavailable. Please try again shortly.",
			RequestID: middleware.GetRequestID(c),
		})
	}
}

func (p *Pages) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.html", errorView{
		Page:    p.page(c, "Not found"),
		Message: "The page or record you asked for does not exist.",
	})
}

// safeReturnURL keeps redirects on this site
func safeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return raw
}
