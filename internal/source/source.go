// Package source reads the data source endpoint that maps database keys to
// raw task records.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/record"
)

const (
	retryWait    = 200 * time.Millisecond
	retryMaxWait = 2 * time.Second
)

// Fetcher returns the raw records of every source database, in payload order.
type Fetcher interface {
	Fetch(ctx context.Context) ([]record.Batch, error)
}

// Client fetches the data source endpoint over HTTP.
type Client struct {
	url  string
	http *resty.Client
}

// Options configures a Client.
type Options struct {
	URL     string
	Timeout time.Duration
	Retries int
}

// New creates a Client for the endpoint at opts.URL.
func New(opts Options) *Client {
	c := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait)
	c.AddRetryCondition(retryCondition)
	return &Client{url: opts.URL, http: c}
}

// retryCondition retries network errors and server-side failures.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// URL returns the endpoint the client reads.
func (c *Client) URL() string {
	return c.url
}

// Fetch performs one GET of the endpoint and decodes the payload.
func (c *Client) Fetch(ctx context.Context) ([]record.Batch, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, tberrors.FetchError{Source: c.url, Err: err}
	}
	if resp.IsError() {
		return nil, tberrors.FetchError{Source: c.url, Status: resp.StatusCode()}
	}

	batches, err := record.DecodePayload(resp.Body())
	if err != nil {
		return nil, tberrors.FetchError{Source: c.url, Status: resp.StatusCode(), Err: err}
	}
	return batches, nil
}

// Static is a Fetcher serving fixed batches, used for offline rendering and
// tests.
type Static []record.Batch

// Fetch returns the batches.
func (s Static) Fetch(_ context.Context) ([]record.Batch, error) {
	return s, nil
}

// Func adapts a function to Fetcher.
type Func func(ctx context.Context) ([]record.Batch, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context) ([]record.Batch, error) {
	return f(ctx)
}

var _ Fetcher = (*Client)(nil)

// String describes the client for logs.
func (c *Client) String() string {
	return fmt.Sprintf("source(%s)", c.url)
}
