package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/masaken/backoffice/internal/config"
)

// Client exposes the generic record store operations used by the application.
// Every call is a network round-trip against named tables and may fail; the
// store's error message is surfaced verbatim.
type Client interface {
	Select(ctx context.Context, table string, opts SelectOptions, dest any) error
	Update(ctx context.Context, table string, patch any, filters map[string]string) error
	Upsert(ctx context.Context, table string, rows any, onConflict string) error
	Count(ctx context.Context, table string) (int64, error)
}

// SelectOptions narrows a table read.
type SelectOptions struct {
	// Columns is the projection, "*" when empty.
	Columns string
	// Filters maps column names to required values (equality).
	Filters map[string]string
	// OrderBy names the sort column; no ordering when empty.
	OrderBy    string
	Descending bool
}

// APIClient is a resty-backed implementation of Client speaking the
// PostgREST dialect exposed by the hosted database.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a record store client from the configured endpoint and key.
func NewClient(cfg config.StoreConfig) *APIClient {
	base := strings.TrimSuffix(cfg.URL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/rest/v1", base)).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AnonKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// apiError represents a PostgREST error payload.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Select reads rows from a table into dest, which must be a pointer to a
// slice of row structs.
func (c *APIClient) Select(ctx context.Context, table string, opts SelectOptions, dest any) error {
	columns := opts.Columns
	if columns == "" {
		columns = "*"
	}

	apiErr := new(apiError)
	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("select", columns).
		SetResult(dest).
		SetError(apiErr)

	for column, value := range opts.Filters {
		req.SetQueryParam(column, "eq."+value)
	}

	if opts.OrderBy != "" {
		direction := "asc"
		if opts.Descending {
			direction = "desc"
		}
		req.SetQueryParam("order", fmt.Sprintf("%s.%s", opts.OrderBy, direction))
	}

	resp, err := req.Get("/" + table)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}

	return storeError(resp, apiErr)
}

// Update patches all rows matching the filters.
func (c *APIClient) Update(ctx context.Context, table string, patch any, filters map[string]string) error {
	apiErr := new(apiError)
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(patch).
		SetError(apiErr)

	for column, value := range filters {
		req.SetQueryParam(column, "eq."+value)
	}

	resp, err := req.Patch("/" + table)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	return storeError(resp, apiErr)
}

// Upsert inserts rows, resolving conflicts on the designated uniqueness
// column by overwriting the existing row (last write wins).
func (c *APIClient) Upsert(ctx context.Context, table string, rows any, onConflict string) error {
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetQueryParam("on_conflict", onConflict).
		SetBody(rows).
		SetError(apiErr).
		Post("/" + table)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}

	return storeError(resp, apiErr)
}

// Count issues a row-count-only probe against a table. It fetches no row
// data and is used by the settings connectivity test.
func (c *APIClient) Count(ctx context.Context, table string) (int64, error) {
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "count=estimated").
		SetHeader("Range", "0-0").
		SetQueryParam("select", "id").
		SetError(apiErr).
		Get("/" + table)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	if err := storeError(resp, apiErr); err != nil {
		return 0, err
	}

	return parseContentRangeTotal(resp.Header().Get("Content-Range"))
}

// storeError maps non-2xx responses to an error carrying the store's own
// message so the UI can show it unchanged.
func storeError(resp *resty.Response, apiErr *apiError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := strings.TrimSpace(apiErr.Message)
	if message == "" {
		message = resp.Status()
	}
	return fmt.Errorf("%s", message)
}

// parseContentRangeTotal extracts the total from headers like "0-0/123" or
// "*/123".
func parseContentRangeTotal(header string) (int64, error) {
	_, total, ok := strings.Cut(header, "/")
	if !ok {
		return 0, fmt.Errorf("missing content range in count response")
	}
	if total == "*" {
		return 0, nil
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed content range %q: %w", header, err)
	}
	return n, nil
}
