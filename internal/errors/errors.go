//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import (
	"fmt"
	"strings"
)

// NotConfiguredError indicates a required setting is missing.
type NotConfiguredError struct {
	Setting string
	Env     string
}

func (e NotConfiguredError) Error() string {
	if e.Env != "" {
		return fmt.Sprintf("%s is not configured (set %s)", e.Setting, e.Env)
	}
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// FetchError indicates the data source could not be read. Status is the HTTP
// status code, 0 when no response was received.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e FetchError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("failed to fetch %s: HTTP %d: %v", e.Source, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("failed to fetch %s: HTTP %d", e.Source, e.Status)
	default:
		return fmt.Sprintf("failed to fetch %s: %v", e.Source, e.Err)
	}
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// TaskNotFoundError indicates no task in the current set has the ID.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// InvalidFilterError indicates an unrecognized filter. Callers treat it as a
// warning and fall back to showing every task.
type InvalidFilterError struct {
	Value string
	Valid []string
}

func (e InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: %s (valid: %s)", e.Value, strings.Join(e.Valid, ", "))
}

// InvalidSortError indicates an unrecognized sort key. Callers treat it as a
// warning and keep the source order.
type InvalidSortError struct {
	Value string
	Valid []string
}

func (e InvalidSortError) Error() string {
	return fmt.Sprintf("invalid sort key: %s (valid: %s)", e.Value, strings.Join(e.Valid, ", "))
}

// InvalidLayoutError indicates an unknown dashboard layout.
type InvalidLayoutError struct {
	Value string
}

func (e InvalidLayoutError) Error() string {
	return fmt.Sprintf("invalid layout: %s (valid: board, tv, mobile)", e.Value)
}

// NotionAPIError is an error object returned by the Notion API.
type NotionAPIError struct {
	Status  int
	Code    string
	Message string
}

func (e NotionAPIError) Error() string {
	return fmt.Sprintf("notion api: %d %s: %s", e.Status, e.Code, e.Message)
}

// NotificationError is a failure notification surfaced as an error.
type NotificationError struct {
	Message string
}

func (e NotificationError) Error() string {
	return e.Message
}
