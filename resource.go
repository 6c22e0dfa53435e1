package leadscout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Transform maps a raw wire record to a typed entity. Transforms must be
// pure; a failing transform is a programming error surfaced as a client
// error, not a handled case.
type Transform[T any] func(raw json.RawMessage) (T, error)

// Resource is a typed CRUD surface over one REST collection endpoint. It is
// stateless across calls and built entirely on the client core; it never
// talks to the transport directly.
type Resource[T any] struct {
	client    *Client
	endpoint  string
	transform Transform[T]
}

// ResourceOption configures a Resource.
type ResourceOption[T any] func(*Resource[T])

// WithTransform installs a per-item transform. Without one, records decode
// directly into T.
func WithTransform[T any](transform Transform[T]) ResourceOption[T] {
	return func(r *Resource[T]) { r.transform = transform }
}

// NewResource binds a typed resource to a collection endpoint.
func NewResource[T any](c *Client, endpoint string, opts ...ResourceOption[T]) *Resource[T] {
	r := &Resource[T]{client: c, endpoint: endpoint}
	for _, opt := range opts {
		opt(r)
	}
	if r.transform == nil {
		r.transform = func(raw json.RawMessage) (T, error) {
			var v T
			err := json.Unmarshal(raw, &v)
			return v, err
		}
	}
	return r
}

// Endpoint returns the collection path the resource is bound to.
func (r *Resource[T]) Endpoint() string { return r.endpoint }

func (r *Resource[T]) decodeOne(raw json.RawMessage) (T, error) {
	v, err := r.transform(raw)
	if err != nil {
		return v, unknownError(fmt.Errorf("transform %s record: %w", r.endpoint, err))
	}
	return v, nil
}

// decodeList applies the transform to every element, preserving order and
// count.
func (r *Resource[T]) decodeList(raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := r.decodeOne(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Resource[T]) listCall(ctx context.Context, path string, query url.Values) (*Envelope[[]T], error) {
	status, data, err := r.client.do(ctx, http.MethodGet, path, query, nil, 0)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, unknownError(fmt.Errorf("decode %s collection: %w", r.endpoint, err))
		}
	}
	items, err := r.decodeList(raws)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, items, data), nil
}

func (r *Resource[T]) itemCall(ctx context.Context, method, path string, body any) (*Envelope[T], error) {
	status, data, err := r.client.do(ctx, method, path, nil, body, 0)
	if err != nil {
		return nil, err
	}
	item, err := r.decodeOne(data)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, item, data), nil
}

// GetAll fetches the collection, applying the transform to every element.
func (r *Resource[T]) GetAll(ctx context.Context, params url.Values) (*Envelope[[]T], error) {
	return r.listCall(ctx, r.endpoint, params)
}

// GetByID fetches a single record.
func (r *Resource[T]) GetByID(ctx context.Context, id string) (*Envelope[T], error) {
	return r.itemCall(ctx, http.MethodGet, r.endpoint+"/"+id, nil)
}

// Create posts a partial entity and returns the created record.
func (r *Resource[T]) Create(ctx context.Context, partial any) (*Envelope[T], error) {
	return r.itemCall(ctx, http.MethodPost, r.endpoint, partial)
}

// Update performs a full replace.
func (r *Resource[T]) Update(ctx context.Context, id string, partial any) (*Envelope[T], error) {
	return r.itemCall(ctx, http.MethodPut, r.endpoint+"/"+id, partial)
}

// Patch performs a partial update.
func (r *Resource[T]) Patch(ctx context.Context, id string, partial any) (*Envelope[T], error) {
	return r.itemCall(ctx, http.MethodPatch, r.endpoint+"/"+id, partial)
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, id string) (*Envelope[Void], error) {
	return doVoid(ctx, r.client, http.MethodDelete, r.endpoint+"/"+id, nil, nil)
}

// GetPaginated fetches one page of the collection, transforming each row.
func (r *Resource[T]) GetPaginated(ctx context.Context, params PageParams) (*Envelope[Page[T]], error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	for k, v := range params.Filters {
		query.Set(k, v)
	}

	status, data, err := r.client.do(ctx, http.MethodGet, r.endpoint, query, nil, 0)
	if err != nil {
		return nil, err
	}
	var wire struct {
		Data        []json.RawMessage `json:"data"`
		Total       int               `json:"total"`
		Page        int               `json:"page"`
		Limit       int               `json:"limit"`
		TotalPages  int               `json:"totalPages"`
		HasNextPage bool              `json:"hasNextPage"`
		HasPrevPage bool              `json:"hasPrevPage"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, unknownError(fmt.Errorf("decode %s page: %w", r.endpoint, err))
	}
	items, err := r.decodeList(wire.Data)
	if err != nil {
		return nil, err
	}
	page := Page[T]{
		Data:        items,
		Total:       wire.Total,
		Page:        wire.Page,
		Limit:       wire.Limit,
		TotalPages:  wire.TotalPages,
		HasNextPage: wire.HasNextPage,
		HasPrevPage: wire.HasPrevPage,
	}
	return newEnvelope(status, page, data), nil
}

// Search queries <endpoint>/search?q=..., transforming each result.
func (r *Resource[T]) Search(ctx context.Context, query string, params url.Values) (*Envelope[[]T], error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("q", query)
	return r.listCall(ctx, r.endpoint+"/search", q)
}

// BulkUpdateItem pairs a record id with its partial update.
type BulkUpdateItem struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

// BulkCreate posts a slice of partial entities to <endpoint>/bulk.
func (r *Resource[T]) BulkCreate(ctx context.Context, items any) (*Envelope[[]T], error) {
	status, data, err := r.client.do(ctx, http.MethodPost, r.endpoint+"/bulk", nil, items, 0)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, unknownError(fmt.Errorf("decode %s bulk result: %w", r.endpoint, err))
	}
	created, err := r.decodeList(raws)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, created, data), nil
}

// BulkUpdate puts a slice of id/data pairs to <endpoint>/bulk.
func (r *Resource[T]) BulkUpdate(ctx context.Context, updates []BulkUpdateItem) (*Envelope[[]T], error) {
	status, data, err := r.client.do(ctx, http.MethodPut, r.endpoint+"/bulk", nil, updates, 0)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, unknownError(fmt.Errorf("decode %s bulk result: %w", r.endpoint, err))
	}
	updated, err := r.decodeList(raws)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, updated, data), nil
}

// BulkDelete issues one DELETE to <endpoint>/bulk carrying {"ids": [...]}.
func (r *Resource[T]) BulkDelete(ctx context.Context, ids []string) (*Envelope[Void], error) {
	return doVoid(ctx, r.client, http.MethodDelete, r.endpoint+"/bulk", nil, map[string][]string{"ids": ids})
}

// Custom operations append a suffix to the endpoint for calls that do not
// fit the CRUD shape, e.g. "/stats" or "/42/activities". The payload is
// returned raw for the caller to decode.

func (r *Resource[T]) CustomGet(ctx context.Context, suffix string, params url.Values) (*Envelope[json.RawMessage], error) {
	status, data, err := r.client.do(ctx, http.MethodGet, r.endpoint+suffix, params, nil, 0)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, rawMessage(data), data), nil
}

func (r *Resource[T]) CustomPost(ctx context.Context, suffix string, body any) (*Envelope[json.RawMessage], error) {
	status, data, err := r.client.do(ctx, http.MethodPost, r.endpoint+suffix, nil, body, 0)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, rawMessage(data), data), nil
}

func (r *Resource[T]) CustomPut(ctx context.Context, suffix string, body any) (*Envelope[json.RawMessage], error) {
	status, data, err := r.client.do(ctx, http.MethodPut, r.endpoint+suffix, nil, body, 0)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, rawMessage(data), data), nil
}

func (r *Resource[T]) CustomDelete(ctx context.Context, suffix string) (*Envelope[json.RawMessage], error) {
	status, data, err := r.client.do(ctx, http.MethodDelete, r.endpoint+suffix, nil, nil, 0)
	if err != nil {
		return nil, err
	}
	return newEnvelope(status, rawMessage(data), data), nil
}
