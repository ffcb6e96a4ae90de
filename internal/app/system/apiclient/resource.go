package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListParams is the query sent to a collection endpoint.
type ListParams struct {
	Keyword string
	Page    int
	Size    int
	Filters map[string]string
}

// Values encodes the params as the backend expects them.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Keyword != "" {
		v.Set("keyword", p.Keyword)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	for k, val := range p.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Resource is a backend collection such as /users or /clubs.
type Resource struct {
	c    *Client
	path string
	name string
}

// Resource returns a helper for the collection at path (e.g. "/users").
func (c *Client) Resource(path string) *Resource {
	path = "/" + strings.Trim(path, "/")
	return &Resource{c: c, path: path, name: resourceOf(path)}
}

// Path returns the collection path.
func (r *Resource) Path() string { return r.path }

func (r *Resource) do(ctx context.Context, method, path string, q url.Values, form *Form, out any) (*Envelope, error) {
	return r.c.Do(ctx, Request{
		Method:   method,
		Path:     path,
		Query:    q,
		Form:     form,
		Resource: r.name,
	}, out)
}

// List fetches one page into out (a pointer to a slice) and returns the total.
func (r *Resource) List(ctx context.Context, p ListParams, out any) (int, error) {
	env, err := r.do(ctx, http.MethodGet, r.path, p.Values(), nil, out)
	if err != nil {
		return 0, err
	}
	return env.Total, nil
}

// Get fetches one entity by id into out.
func (r *Resource) Get(ctx context.Context, id string, out any) error {
	_, err := r.do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, nil, out)
	return err
}

// Create posts a new entity and returns the id the backend assigned.
func (r *Resource) Create(ctx context.Context, form *Form) (string, error) {
	var created struct {
		ID json.RawMessage `json:"id"`
	}
	if _, err := r.do(ctx, http.MethodPost, r.path, nil, form, &created); err != nil {
		return "", err
	}
	id := rawID(created.ID)
	if id == "" {
		return "", fmt.Errorf("create %s: backend returned no id", r.name)
	}
	return id, nil
}

// Update replaces an entity's fields.
func (r *Resource) Update(ctx context.Context, id string, form *Form) error {
	_, err := r.do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), nil, form, nil)
	return err
}

// Delete removes an entity.
func (r *Resource) Delete(ctx context.Context, id string) error {
	_, err := r.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// Action posts a state transition such as approve or reject.
func (r *Resource) Action(ctx context.Context, id, action string, form *Form) error {
	if form == nil {
		form = NewForm(nil)
	}
	_, err := r.do(ctx, http.MethodPost, r.path+"/"+url.PathEscape(id)+"/"+action, nil, form, nil)
	return err
}

// Upload sends one file for field of an existing entity.
func (r *Resource) Upload(ctx context.Context, id, field string, part FilePart) error {
	part.Field = field
	form := NewForm(nil).Attach(part)
	_, err := r.do(ctx, http.MethodPost, r.path+"/"+url.PathEscape(id)+"/"+field, nil, form, nil)
	return err
}

// CreateItem adds an item to a sub-collection (e.g. /clubs/3/security_questions).
func (r *Resource) CreateItem(ctx context.Context, id, coll string, form *Form) (string, error) {
	var created struct {
		ID json.RawMessage `json:"id"`
	}
	_, err := r.do(ctx, http.MethodPost, r.itemsPath(id, coll), nil, form, &created)
	if err != nil {
		return "", err
	}
	return rawID(created.ID), nil
}

// UpdateItem replaces one sub-collection item.
func (r *Resource) UpdateItem(ctx context.Context, id, coll, itemID string, form *Form) error {
	_, err := r.do(ctx, http.MethodPut, r.itemsPath(id, coll)+"/"+url.PathEscape(itemID), nil, form, nil)
	return err
}

// DeleteItem removes one sub-collection item.
func (r *Resource) DeleteItem(ctx context.Context, id, coll, itemID string) error {
	_, err := r.do(ctx, http.MethodDelete, r.itemsPath(id, coll)+"/"+url.PathEscape(itemID), nil, nil, nil)
	return err
}

func (r *Resource) itemsPath(id, coll string) string {
	return r.path + "/" + url.PathEscape(id) + "/" + coll
}

// rawID turns a JSON number or string into its text form.
func rawID(raw json.RawMessage) string {
	s := bytes.TrimSpace(raw)
	if len(s) == 0 || bytes.Equal(s, []byte("null")) {
		return ""
	}
	var str string
	if err := json.Unmarshal(s, &str); err == nil {
		return str
	}
	return string(s)
}
