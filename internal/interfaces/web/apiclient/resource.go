package apiclient

import (
	"context"
	"net/http"
	"strconv"
)

// Resource calls the uniform operations of one entity's controller,
// /{Entity}Data/{Op}{Entity}
type Resource[Req, Resp any] struct {
	client *Client
	entity string
}

// NewResource binds a client to an entity, e.g. "Article"
func NewResource[Req, Resp any](client *Client, entity string) *Resource[Req, Resp] {
	return &Resource[Req, Resp]{client: client, entity: entity}
}

// Entity returns the singular entity name
func (r *Resource[Req, Resp]) Entity() string {
	return r.entity
}

func (r *Resource[Req, Resp]) op(name string) string {
	return "/" + r.entity + "Data/" + name
}

func withID(endpoint string, id int64) string {
	return endpoint + "/" + strconv.FormatInt(id, 10)
}

// List returns every record
func (r *Resource[Req, Resp]) List(ctx context.Context, sess Session) ([]Resp, error) {
	endpoint := r.op("List" + r.entity + "s")
	items := make([]Resp, 0)
	err := r.client.do(ctx, sess, call{Method: http.MethodGet, Endpoint: endpoint, Path: endpoint, Out: &items})
	return items, err
}

// Find returns one record or ErrNotFound
func (r *Resource[Req, Resp]) Find(ctx context.Context, sess Session, id int64) (*Resp, error) {
	endpoint := r.op("Find" + r.entity)
	var out Resp
	if err := r.client.do(ctx, sess, call{Method: http.MethodGet, Endpoint: endpoint + "/{id}", Path: withID(endpoint, id), Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Add creates a record and returns it with its assigned id
func (r *Resource[Req, Resp]) Add(ctx context.Context, sess Session, req Req) (*Resp, error) {
	endpoint := r.op("Add" + r.entity)
	var out Resp
	if err := r.client.do(ctx, sess, call{Method: http.MethodPost, Endpoint: endpoint, Path: endpoint, Body: req, Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the record; req must carry the same id
func (r *Resource[Req, Resp]) Update(ctx context.Context, sess Session, id int64, req Req) error {
	endpoint := r.op("Update" + r.entity)
	return r.client.do(ctx, sess, call{Method: http.MethodPut, Endpoint: endpoint + "/{id}", Path: withID(endpoint, id), Body: req})
}

// Delete removes the record and returns what was removed
func (r *Resource[Req, Resp]) Delete(ctx context.Context, sess Session, id int64) (*Resp, error) {
	endpoint := r.op("Delete" + r.entity)
	var out Resp
	if err := r.client.do(ctx, sess, call{Method: http.MethodDelete, Endpoint: endpoint + "/{id}", Path: withID(endpoint, id), Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lookup calls a foreign-key listing such as ListArticlesForCategory
func (r *Resource[Req, Resp]) Lookup(ctx context.Context, sess Session, name string, parentID int64) ([]Resp, error) {
	endpoint := r.op(name)
	items := make([]Resp, 0)
	err := r.client.do(ctx, sess, call{Method: http.MethodGet, Endpoint: endpoint + "/{id}", Path: withID(endpoint, parentID), Out: &items})
	return items, err
}
