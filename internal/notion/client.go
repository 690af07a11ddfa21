// Package notion queries Notion databases and assembles the data source
// payload served at /api/notion_entries.
package notion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"

	tberrors "github.com/abatilo/taskboard/internal/errors"
)

const (
	defaultPageSize = 100
	defaultBackoff  = 250 * time.Millisecond
)

// Options configures a Client.
type Options struct {
	Token    string
	Version  string
	BaseURL  string
	PageSize int
	Retries  uint64
	Timeout  time.Duration
	Backoff  time.Duration
}

// Client is a minimal Notion REST client covering database queries.
type Client struct {
	http     *resty.Client
	pageSize int
	retries  uint64
	backoff  time.Duration
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetAuthToken(opts.Token).
		SetHeader("Notion-Version", opts.Version).
		SetHeader("Content-Type", "application/json")
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	return &Client{http: c, pageSize: opts.PageSize, retries: opts.Retries, backoff: opts.Backoff}
}

// QueryDatabase returns every page of the database, following pagination
// cursors until has_more is false.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]gjson.Result, error) {
	var pages []gjson.Result
	cursor := ""
	for {
		body, err := c.queryPage(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		res := gjson.ParseBytes(body)
		pages = append(pages, res.Get("results").Array()...)

		cursor = res.Get("next_cursor").String()
		if !res.Get("has_more").Bool() || cursor == "" {
			return pages, nil
		}
	}
}

func (c *Client) queryPage(ctx context.Context, databaseID, cursor string) ([]byte, error) {
	req := map[string]any{"page_size": c.pageSize}
	if cursor != "" {
		req["start_cursor"] = cursor
	}

	var body []byte
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(req).
			SetPathParam("id", databaseID).
			Post("/databases/{id}/query")
		if err != nil {
			return retry.RetryableError(fmt.Errorf("query database %s: %w", databaseID, err))
		}
		if resp.IsError() {
			apiErr := parseAPIError(resp)
			if retryable(resp.StatusCode()) {
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func parseAPIError(resp *resty.Response) tberrors.NotionAPIError {
	res := gjson.ParseBytes(resp.Body())
	e := tberrors.NotionAPIError{
		Status:  resp.StatusCode(),
		Code:    res.Get("code").String(),
		Message: res.Get("message").String(),
	}
	if e.Message == "" {
		e.Message = http.StatusText(e.Status)
	}
	return e
}
