package identity

import (
	"context"
	"net/http"
	"net/url"
)

// Row storage. The backend exposes tables under /rest/v1 with filters passed
// as query parameters in operator.value form (e.g. user_id=eq.<id>).

// InsertRow inserts one row into table. dst, when non-nil, must be a pointer
// to a slice: the backend returns the inserted rows as an array.
func (c *Client) InsertRow(ctx context.Context, table string, row, dst any) error {
	header := http.Header{}
	if dst != nil {
		header.Set("Prefer", "return=representation")
	} else {
		header.Set("Prefer", "return=minimal")
	}
	return c.call(ctx, http.MethodPost, "/rest/v1/"+table, nil, "", header, row, dst)
}

// SelectRows reads rows matching filters into dst (a pointer to a slice).
// order is the backend's column.direction form, e.g. "created_at.desc".
func (c *Client) SelectRows(ctx context.Context, table string, filters map[string]string, order string, dst any) error {
	query := url.Values{"select": []string{"*"}}
	for column, cond := range filters {
		query.Set(column, cond)
	}
	if order != "" {
		query.Set("order", order)
	}
	return c.call(ctx, http.MethodGet, "/rest/v1/"+table, query, "", nil, nil, dst)
}

// UpdateRows patches rows matching filters and decodes the updated rows into
// dst when non-nil.
func (c *Client) UpdateRows(ctx context.Context, table string, filters map[string]string, patch, dst any) error {
	query := url.Values{}
	for column, cond := range filters {
		query.Set(column, cond)
	}
	header := http.Header{}
	if dst != nil {
		header.Set("Prefer", "return=representation")
	}
	return c.call(ctx, http.MethodPatch, "/rest/v1/"+table, query, "", header, patch, dst)
}

// DeleteRows deletes rows matching filters. Deleting nothing is not an
// error; the operation is idempotent.
func (c *Client) DeleteRows(ctx context.Context, table string, filters map[string]string) error {
	query := url.Values{}
	for column, cond := range filters {
		query.Set(column, cond)
	}
	return c.call(ctx, http.MethodDelete, "/rest/v1/"+table, query, "", nil, nil, nil)
}
