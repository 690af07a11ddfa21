//nolint:testpackage // Tests require internal access for thorough testing
package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/record"
)

func page(id, title string) string {
	return `{"object":"page","id":"` + id + `","url":"https://notion.so/` + id + `","properties":{` +
		`"Status":{"type":"select","select":{"name":"In progress"}},` +
		`"Name":{"type":"title","title":[{"plain_text":"` + title + `"}]}}}`
}

func newClient(url string, retries uint64) *Client {
	return New(Options{
		Token:   "secret_test",
		Version: "2022-06-28",
		BaseURL: url,
		Retries: retries,
		Timeout: time.Second,
		Backoff: time.Millisecond,
	})
}

func TestQueryDatabasePaginates(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/abc/query", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var req map[string]any
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.InDelta(t, 100, req["page_size"], 0)

		if req["start_cursor"] == "c2" {
			_, _ = w.Write([]byte(`{"results":[` + page("p2", "Second") + `],"has_more":false,"next_cursor":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[` + page("p1", "First") + `],"has_more":true,"next_cursor":"c2"}`))
	}))
	defer srv.Close()

	pages, err := newClient(srv.URL, 0).QueryDatabase(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "p1", pages[0].Get("id").String())
	assert.Equal(t, "p2", pages[1].Get("id").String())
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryDatabaseAPIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find database"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, 3).QueryDatabase(context.Background(), "missing")

	var apiErr tberrors.NotionAPIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Equal(t, "Could not find database", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryDatabaseRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"results":[],"has_more":false}`))
	}))
	defer srv.Close()

	pages, err := newClient(srv.URL, 2).QueryDatabase(context.Background(), "abc")
	require.NoError(t, err)
	assert.Empty(t, pages)
	assert.Equal(t, int32(2), calls.Load())
}

type fakeQuerier map[string]func() ([]gjson.Result, error)

func (f fakeQuerier) QueryDatabase(_ context.Context, id string) ([]gjson.Result, error) {
	return f[id]()
}

func TestProducerFetch(t *testing.T) {
	q := fakeQuerier{
		"id-high": func() ([]gjson.Result, error) {
			return []gjson.Result{gjson.Parse(page("p1", "Ship it")), gjson.Parse(`{"id":"p2","properties":{}}`)}, nil
		},
		"id-low": func() ([]gjson.Result, error) {
			return nil, errors.New("Could not find database")
		},
	}
	dbs := Databases(map[string]string{"db3": "id-low", "db1": "id-high", "db2": ""})
	p := NewProducer(q, dbs, logger.Discard())

	batches, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, "db1", batches[0].Key)
	require.Len(t, batches[0].Records, 2)
	assert.Equal(t, "Ship it", batches[0].Records[0].Title)
	assert.Equal(t, record.Select("In progress"), batches[0].Records[0].Properties["Status"])
	assert.Equal(t, "Untitled Entry (p2)", batches[0].Records[1].Title)

	assert.Equal(t, "db2", batches[1].Key)
	assert.Empty(t, batches[1].Records)

	assert.Equal(t, "db3", batches[2].Key)
	require.Len(t, batches[2].Records, 1)
	assert.Equal(t, "Could not find database", batches[2].Records[0].Error)
}

func TestProducerPayloadRoundTrips(t *testing.T) {
	q := fakeQuerier{"a": func() ([]gjson.Result, error) { return []gjson.Result{gjson.Parse(page("p1", "One"))}, nil }}
	p := NewProducer(q, []Database{{Key: "db2", ID: ""}, {Key: "db1", ID: "a"}}, logger.Discard())

	data, err := p.Payload(context.Background())
	require.NoError(t, err)

	batches, err := record.DecodePayload(data)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "db2", batches[0].Key)
	assert.Equal(t, "db1", batches[1].Key)
	assert.Equal(t, "p1", batches[1].Records[0].ID)
	assert.Equal(t, record.Title("One"), batches[1].Records[0].Properties["Name"])
}

func TestProducerFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := fakeQuerier{
		"a": func() ([]gjson.Result, error) {
			cancel()
			return nil, context.Canceled
		},
		"b": func() ([]gjson.Result, error) { return nil, nil },
	}
	p := NewProducer(q, Databases(map[string]string{"db1": "a", "db2": "b"}), logger.Discard())

	batches, err := p.Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, batches)
}
