//nolint:testpackage // Tests require internal access for thorough testing
package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchError(t *testing.T) {
	tests := []struct {
		name string
		err  FetchError
		want string
	}{
		{
			name: "network failure",
			err:  FetchError{Source: "http://localhost:8000/api/notion_entries", Err: io.ErrUnexpectedEOF},
			want: "failed to fetch http://localhost:8000/api/notion_entries: unexpected EOF",
		},
		{
			name: "non-success status",
			err:  FetchError{Source: "data source", Status: 502},
			want: "failed to fetch data source: HTTP 502",
		},
		{
			name: "status and cause",
			err:  FetchError{Source: "data source", Status: 200, Err: io.EOF},
			want: "failed to fetch data source: HTTP 200: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	err := error(FetchError{Source: "x", Err: io.ErrUnexpectedEOF})
	assert.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))

	var fe FetchError
	assert.True(t, stderrors.As(err, &fe))
	assert.Equal(t, "x", fe.Source)
}

func TestTaskNotFoundError(t *testing.T) {
	err := TaskNotFoundError{ID: "xyz789"}
	assert.Equal(t, "task not found: xyz789", err.Error())
}

func TestNotConfiguredError(t *testing.T) {
	assert.Equal(t, "notion token is not configured (set NOTION_TOKEN)",
		NotConfiguredError{Setting: "notion token", Env: "NOTION_TOKEN"}.Error())
	assert.Equal(t, "source url is not configured", NotConfiguredError{Setting: "source url"}.Error())
}

func TestInvalidKeyErrors(t *testing.T) {
	assert.Equal(t, "invalid filter: archived (valid: all, high)",
		InvalidFilterError{Value: "archived", Valid: []string{"all", "high"}}.Error())
	assert.Equal(t, "invalid sort key: owner (valid: title)",
		InvalidSortError{Value: "owner", Valid: []string{"title"}}.Error())
	assert.Equal(t, "invalid layout: wall (valid: board, tv, mobile)", InvalidLayoutError{Value: "wall"}.Error())
}

func TestNotificationError(t *testing.T) {
	assert.Equal(t, "Failed to load tasks", NotificationError{Message: "Failed to load tasks"}.Error())
}
