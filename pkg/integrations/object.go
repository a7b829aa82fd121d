package integrations

import (
	"context"
	"net/http"
	"net/url"
)

// Object is the lazily loaded state behind every hosting entity.
//
// An Object is addressed by an API path relative to its client's base URL.
// Its JSON representation is fetched with GET on first use of Data and kept
// until Refresh or SetData replaces it. Identity is the absolute URL: two
// objects with the same URL stand for the same remote resource.
//
// Objects are not safe for concurrent use. Give each goroutine its own
// entity; they can share the Client.
type Object struct {
	client *Client
	path   string
	query  url.Values
	loader Loader
	data   map[string]any
	loaded bool
}

// Loader fetches an object's data when a GET on its path cannot, e.g. when
// the provider only offers a lookup by query.
type Loader func(ctx context.Context) (map[string]any, error)

// NewObject creates an unloaded object for path.
func NewObject(client *Client, path string) *Object {
	return &Object{client: client, path: path}
}

// NewObjectFromData creates an object whose data is already known, e.g.
// from a list or search response. No request is made.
func NewObjectFromData(client *Client, path string, data map[string]any) *Object {
	o := NewObject(client, path)
	o.SetData(data)
	return o
}

// Client returns the access layer used by the object.
func (o *Object) Client() *Client { return o.client }

// Path returns the API path of the object.
func (o *Object) Path() string { return o.path }

// URL returns the absolute API URL of the object, its identity.
func (o *Object) URL() string { return o.client.BaseURL() + o.path }

// SetQuery sets query parameters sent when the object is loaded.
// The cached data is discarded if the parameters change.
func (o *Object) SetQuery(q url.Values) {
	if q.Encode() != o.query.Encode() {
		o.loaded = false
		o.data = nil
	}
	o.query = q
}

// SetLoader replaces the GET on the object's path with load.
func (o *Object) SetLoader(load Loader) { o.loader = load }

// Loaded reports whether data is cached.
func (o *Object) Loaded() bool { return o.loaded }

// Data returns the cached data, fetching it first if necessary.
func (o *Object) Data(ctx context.Context) (map[string]any, error) {
	if o.loaded {
		return o.data, nil
	}
	if err := o.Refresh(ctx); err != nil {
		return nil, err
	}
	return o.data, nil
}

// SetData replaces the cached data without a request.
func (o *Object) SetData(data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	o.data = data
	o.loaded = true
}

// Refresh fetches the object again, replacing the cached data.
func (o *Object) Refresh(ctx context.Context) error {
	if o.loader != nil {
		data, err := o.loader(ctx)
		if err != nil {
			return err
		}
		o.SetData(data)
		return nil
	}
	v, err := o.client.Get(ctx, o.path, o.query)
	if err != nil {
		return err
	}
	o.SetData(AsObject(v))
	return nil
}

// Update sends body to the object's own URL with method (usually PATCH or
// PUT) and adopts the response as the new cached data.
func (o *Object) Update(ctx context.Context, method string, body any) (map[string]any, error) {
	v, err := o.client.Fetch(ctx, method, o.path, nil, body)
	if err != nil {
		return nil, err
	}
	data := AsObject(v)
	if method != http.MethodDelete {
		o.SetData(data)
	}
	return data, nil
}

// Field is a shorthand for reading one string field of Data.
func (o *Object) Field(ctx context.Context, key string) (string, error) {
	data, err := o.Data(ctx)
	if err != nil {
		return "", err
	}
	return Str(data, key), nil
}
