package handler

import (
	"context"
	"net/http"
	"path"
	"strconv"

	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/community/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// EntityService is the application service every resource handler drives
type EntityService[Req, Resp any] interface {
	List(ctx context.Context) ([]Resp, error)
	GetByID(ctx context.Context, id int64) (*Resp, error)
	Create(ctx context.Context, req Req) (*Resp, error)
	Update(ctx context.Context, id int64, req Req) error
	Delete(ctx context.Context, id int64) (*Resp, error)
}

// Lookup lists the records that reference a parent by foreign key
type Lookup[Resp any] struct {
	// Name is the route segment, e.g. "ListArticlesForCategory"
	Name  string
	Fetch func(ctx context.Context, parentID int64) ([]Resp, error)
}

// EntityConfig describes one resource exposed under /api/{Entity}Data
type EntityConfig[Req, Resp any] struct {
	// Entity is the singular resource name, e.g. "Article"
	Entity string
	// ListAliases are extra list routes, e.g. "ListCategories"
	ListAliases []string
	Service     EntityService[Req, Resp]
	// ResponseID extracts the assigned id for the Location header
	ResponseID func(*Resp) int64
	Lookups    []Lookup[Resp]
}

// EntityHandler serves List, Find, Add, Update and Delete for one resource
type EntityHandler[Req, Resp any] struct {
	BaseHandler
	cfg EntityConfig[Req, Resp]
}

// NewEntityHandler creates a handler for the configured resource
func NewEntityHandler[Req, Resp any](cfg EntityConfig[Req, Resp]) *EntityHandler[Req, Resp] {
	return &EntityHandler[Req, Resp]{cfg: cfg}
}

// Entity returns the singular resource name
func (h *EntityHandler[Req, Resp]) Entity() string {
	return h.cfg.Entity
}

// Routes builds the resource's route group. Writes run behind requireAuth.
func (h *EntityHandler[Req, Resp]) Routes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	e := h.cfg.Entity
	g := router.NewDomainGroup(e, "/"+e+"Data")

	g.GET("/List"+e+"s", h.List)
	for _, alias := range h.cfg.ListAliases {
		g.GET("/"+alias, h.List)
	}
	g.GET("/Find"+e+"/:id", h.Find)
	g.POST("/Add"+e, requireAuth, h.Add)
	g.POST("/Update"+e+"/:id", requireAuth, h.Update)
	g.PUT("/Update"+e+"/:id", requireAuth, h.Update)
	g.POST("/Delete"+e+"/:id", requireAuth, h.Delete)
	g.DELETE("/Delete"+e+"/:id", requireAuth, h.Delete)

	for _, l := range h.cfg.Lookups {
		g.GET("/"+l.Name+"/:id", h.lookup(l))
	}
	return g
}

// List returns every record; an empty store yields []
func (h *EntityHandler[Req, Resp]) List(c *gin.Context) {
	items, err := h.cfg.Service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Find returns one record or an empty 404
func (h *EntityHandler[Req, Resp]) Find(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	item, err := h.cfg.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Add creates a record and answers 201 with a Location pointing at Find
func (h *EntityHandler[Req, Resp]) Add(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.cfg.Service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.cfg.ResponseID != nil {
		base := path.Dir(c.Request.URL.Path)
		c.Header("Location", path.Join(base, "Find"+h.cfg.Entity, strconv.FormatInt(h.cfg.ResponseID(created), 10)))
	}
	h.Created(c, created)
}

// idProbe reads only the id of an update payload
type idProbe struct {
	ID int64 `json:"id"`
}

// Update replaces a record's mutable fields. The body id must equal the
// path id; that is checked before the payload is validated.
func (h *EntityHandler[Req, Resp]) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var probe idProbe
	if err := c.ShouldBindBodyWith(&probe, binding.JSON); err != nil {
		h.bindFailed(c, err)
		return
	}
	if probe.ID != id {
		h.BadRequest(c, dto.ErrCodeIDMismatch, "Body id does not match the path id")
		return
	}

	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.cfg.Service.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a record and returns what was deleted
func (h *EntityHandler[Req, Resp]) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.cfg.Service.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *EntityHandler[Req, Resp]) lookup(l Lookup[Resp]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			// an unknown parent lists nothing
			c.JSON(http.StatusOK, []Resp{})
			return
		}
		items, err := l.Fetch(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if items == nil {
			items = []Resp{}
		}
		c.JSON(http.StatusOK, items)
	}
}
