package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/community/backend/internal/interfaces/web/apiclient"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Related lists the records that reference the one shown on a details page
type Related struct {
	Title   string
	Entity  string
	Columns []string
	Fetch   func(ctx context.Context, sess apiclient.Session, id int64) ([]Row, error)
}

// EntityPagesConfig describes the pages of one entity
type EntityPagesConfig[Req, Resp any] struct {
	Entity   string
	Plural   string
	Resource *apiclient.Resource[Req, Resp]
	ID       func(*Resp) int64
	Version  func(*Resp) int
	Columns  []string
	Cells    func(*Resp) []string
	Display  func(*Resp) []Display
	Fields   []FieldSpec
	// Values prefills the edit form from a record
	Values func(*Resp) map[string]string
	// Decode builds the API payload from a posted form
	Decode  func(f *formReader, id int64) Req
	Related []Related
}

// EntityPages serves List, Details, New, Edit and Delete for one entity
type EntityPages[Req, Resp any] struct {
	*Pages
	cfg EntityPagesConfig[Req, Resp]
}

type routable interface {
	routes(engine *gin.Engine, requireSession gin.HandlerFunc)
}

func newEntityPages[Req, Resp any](p *Pages, cfg EntityPagesConfig[Req, Resp]) *EntityPages[Req, Resp] {
	return &EntityPages[Req, Resp]{Pages: p, cfg: cfg}
}

func (e *EntityPages[Req, Resp]) routes(engine *gin.Engine, requireSession gin.HandlerFunc) {
	g := engine.Group("/" + e.cfg.Entity)
	g.GET("/List", e.List)
	g.GET("/Details/:id", e.Details)
	g.GET("/New", requireSession, e.NewForm)
	g.POST("/New", requireSession, e.Create)
	g.GET("/Edit/:id", requireSession, e.EditForm)
	g.POST("/Edit/:id", requireSession, e.Update)
	g.GET("/Delete/:id", requireSession, e.DeleteConfirm)
	g.POST("/Delete/:id", requireSession, e.Delete)
}

func (e *EntityPages[Req, Resp]) path(action string, id int64) string {
	p := "/" + e.cfg.Entity + "/" + action
	if id > 0 {
		p += "/" + strconv.FormatInt(id, 10)
	}
	return p
}

// pathID parses :id; anything unparseable is a missing page
func (e *EntityPages[Req, Resp]) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		e.notFound(c)
		return 0, false
	}
	return id, true
}

// List renders every record
func (e *EntityPages[Req, Resp]) List(c *gin.Context) {
	items, err := e.cfg.Resource.List(c.Request.Context(), e.session(c))
	if err != nil {
		e.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "list.html", listView{
		Page:    e.page(c, e.cfg.Plural),
		Entity:  e.cfg.Entity,
		Columns: e.cfg.Columns,
		Rows:    rowsFrom(items, e.cfg.ID, e.cfg.Cells),
	})
}

// Details renders one record with its related lists, fetched concurrently
func (e *EntityPages[Req, Resp]) Details(c *gin.Context) {
	id, ok := e.pathID(c)
	if !ok {
		return
	}
	sess := e.session(c)

	var item *Resp
	related := make([]relatedView, len(e.cfg.Related))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		item, err = e.cfg.Resource.Find(ctx, sess, id)
		return err
	})
	for i, r := range e.cfg.Related {
		g.Go(func() error {
			rows, err := r.Fetch(ctx, sess, id)
			if err != nil {
				return err
			}
			related[i] = relatedView{Title: r.Title, Entity: r.Entity, Columns: r.Columns, Rows: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "details.html", detailsView{
		Page:    e.page(c, e.cfg.Entity+" details"),
		Entity:  e.cfg.Entity,
		ID:      id,
		Fields:  e.cfg.Display(item),
		Related: related,
	})
}

// NewForm renders an empty form
func (e *EntityPages[Req, Resp]) NewForm(c *gin.Context) {
	e.renderForm(c, http.StatusOK, 0, 0, map[string]string{}, nil, "")
}

// Create posts the form to the API
func (e *EntityPages[Req, Resp]) Create(c *gin.Context) {
	f, ok := e.readForm(c)
	if !ok {
		return
	}
	req := e.cfg.Decode(f, 0)
	if len(f.errs) > 0 {
		e.renderForm(c, http.StatusBadRequest, 0, 0, formValues(f), f.errs, "")
		return
	}

	created, err := e.cfg.Resource.Add(c.Request.Context(), e.session(c), req)
	if err != nil {
		e.formFailed(c, 0, 0, f, err)
		return
	}
	c.Redirect(http.StatusSeeOther, e.path("Details", e.cfg.ID(created)))
}

// EditForm renders the form prefilled with the record
func (e *EntityPages[Req, Resp]) EditForm(c *gin.Context) {
	id, ok := e.pathID(c)
	if !ok {
		return
	}
	item, err := e.cfg.Resource.Find(c.Request.Context(), e.session(c), id)
	if err != nil {
		e.fail(c, err)
		return
	}
	e.renderForm(c, http.StatusOK, id, e.cfg.Version(item), e.cfg.Values(item), nil, "")
}

// Update posts the edited form to the API
func (e *EntityPages[Req, Resp]) Update(c *gin.Context) {
	id, ok := e.pathID(c)
	if !ok {
		return
	}
	f, ok := e.readForm(c)
	if !ok {
		return
	}
	version := f.Version()
	req := e.cfg.Decode(f, id)
	if len(f.errs) > 0 {
		e.renderForm(c, http.StatusBadRequest, id, version, formValues(f), f.errs, "")
		return
	}

	if err := e.cfg.Resource.Update(c.Request.Context(), e.session(c), id, req); err != nil {
		e.formFailed(c, id, version, f, err)
		return
	}
	c.Redirect(http.StatusSeeOther, e.path("Details", id))
}

// DeleteConfirm renders the confirmation page
func (e *EntityPages[Req, Resp]) DeleteConfirm(c *gin.Context) {
	id, ok := e.pathID(c)
	if !ok {
		return
	}
	item, err := e.cfg.Resource.Find(c.Request.Context(), e.session(c), id)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "delete.html", deleteView{
		Page:   e.page(c, "Delete "+e.cfg.Entity),
		Entity: e.cfg.Entity,
		ID:     id,
		Fields: e.cfg.Display(item),
	})
}

// Delete removes the record and returns to the list
func (e *EntityPages[Req, Resp]) Delete(c *gin.Context) {
	id, ok := e.pathID(c)
	if !ok {
		return
	}
	if _, err := e.cfg.Resource.Delete(c.Request.Context(), e.session(c), id); err != nil {
		e.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, e.path("List", 0))
}

func (e *EntityPages[Req, Resp]) readForm(c *gin.Context) (*formReader, bool) {
	if err := c.Request.ParseForm(); err != nil {
		e.renderForm(c, http.StatusBadRequest, 0, 0, map[string]string{}, nil, "The form could not be read.")
		return nil, false
	}
	return newFormReader(c.Request.PostForm), true
}

// formFailed re-renders the form for a rejected payload; other outcomes
// follow the usual page mapping
func (e *EntityPages[Req, Resp]) formFailed(c *gin.Context, id int64, version int, f *formReader, err error) {
	var validation *apiclient.ValidationError
	if errors.As(err, &validation) {
		byField := validation.ByField()
		msg := ""
		if len(byField) == 0 || !e.hasFieldFor(byField) {
			msg = validation.Message
		}
		e.renderForm(c, http.StatusBadRequest, id, version, formValues(f), byField, msg)
		return
	}
	e.fail(c, err)
}

func (e *EntityPages[Req, Resp]) hasFieldFor(errs map[string]string) bool {
	for _, spec := range e.cfg.Fields {
		if _, ok := errs[spec.Name]; ok {
			return true
		}
	}
	return false
}

func formValues(f *formReader) map[string]string {
	out := make(map[string]string, len(f.values))
	for k := range f.values {
		out[k] = f.String(k)
	}
	return out
}

// renderForm loads select options concurrently and renders the form
func (e *EntityPages[Req, Resp]) renderForm(c *gin.Context, status int, id int64, version int, values, errs map[string]string, message string) {
	sess := e.session(c)
	fields := make([]formField, len(e.cfg.Fields))

	g, ctx := errgroup.WithContext(c.Request.Context())
	for i, spec := range e.cfg.Fields {
		fields[i] = formField{
			Name:     spec.Name,
			Label:    spec.Label,
			Type:     spec.Type,
			Value:    values[spec.Name],
			Required: spec.Required,
			Error:    errs[spec.Name],
		}
		if spec.Options == nil {
			continue
		}
		g.Go(func() error {
			opts, err := spec.Options(ctx, sess)
			if err != nil {
				return err
			}
			for j := range opts {
				opts[j].Selected = opts[j].Value == fields[i].Value
			}
			fields[i].Options = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.fail(c, err)
		return
	}

	action, title := e.path("New", 0), "New "+e.cfg.Entity
	if id > 0 {
		action, title = e.path("Edit", id), "Edit "+e.cfg.Entity
	}
	c.HTML(status, "form.html", formView{
		Page:    e.page(c, title),
		Entity:  e.cfg.Entity,
		Action:  action,
		ID:      id,
		Version: version,
		Fields:  fields,
		Error:   message,
	})
}
