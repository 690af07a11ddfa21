//nolint:testpackage // Tests require internal access for thorough testing
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/taskboard/internal/dashboard"
	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/normalize"
	"github.com/abatilo/taskboard/internal/record"
	"github.com/abatilo/taskboard/internal/source"
	"github.com/abatilo/taskboard/internal/view"
)

func fixture() []record.Batch {
	return []record.Batch{
		{Key: "db1", Records: []record.RawRecord{
			{ID: "h1", URL: "https://notion.so/h1", Properties: map[string]record.PropertyValue{
				"Name":        record.Title("Patch servers"),
				"Description": record.RichText("Apply the ", "kernel update"),
				"Status":      record.Select("In progress"),
			}},
		}},
		{Key: "db3", Records: []record.RawRecord{
			{ID: "l1", Properties: map[string]record.PropertyValue{
				"Name":   record.Title("Tidy wiki"),
				"Status": record.Checkbox(true),
			}},
		}},
	}
}

func newModel(t *testing.T, f source.Fetcher) (Model, *Notifier) {
	t.Helper()
	n := NewNotifier()
	r := dashboard.NewRefresher(f, normalize.New(normalize.Options{}), normalize.DefaultPartitions(), n, logger.Discard())
	return New(r, n, Options{
		Filter:    view.FilterAll,
		Sort:      view.SortPriority,
		ToastTime: time.Second,
	}), n
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.refresh()
	m, _ = update(t, m, cmd())
	return m
}

func TestLoadAppliesTasks(t *testing.T) {
	m, n := newModel(t, source.Static(fixture()))
	assert.Contains(t, m.View(), "Loading tasks...")

	m = loaded(t, m)
	assert.False(t, m.loading)
	assert.Len(t, m.vm.Tasks, 2)
	assert.Equal(t, 1, m.vm.Counts.Completed)

	note := <-n.ch
	assert.Equal(t, "Loaded 2 tasks successfully", note.Message)
}

func TestFailedLoadKeepsTasks(t *testing.T) {
	fail := false
	f := source.Func(func(context.Context) ([]record.Batch, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return fixture(), nil
	})
	m, n := newModel(t, f)
	m = loaded(t, m)
	<-n.ch

	fail = true
	m = loaded(t, m)
	assert.Len(t, m.vm.Tasks, 2)

	note := <-n.ch
	assert.Equal(t, dashboard.LevelError, note.Level)
	assert.Empty(t, n.ch, "exactly one notification per failed attempt")
}

func TestLateResultIsDiscarded(t *testing.T) {
	calls := 0
	f := source.Func(func(context.Context) ([]record.Batch, error) {
		calls++
		if calls == 1 {
			return fixture()[:1], nil
		}
		return fixture(), nil
	})
	m, _ := newModel(t, f)

	older := m.refresh()
	newer := m.refresh()
	olderMsg := older()
	newerMsg := newer()

	m, _ = update(t, m, newerMsg)
	require.Len(t, m.vm.Tasks, 2)

	m, _ = update(t, m, olderMsg)
	assert.Len(t, m.vm.Tasks, 2, "an earlier refresh resolving late must not replace fresher tasks")
}

func TestFilterAndSortKeys(t *testing.T) {
	m, _ := newModel(t, source.Static(fixture()))
	m = loaded(t, m)

	m, _ = update(t, m, key("f"))
	assert.Equal(t, view.FilterHigh, m.state.Filter())
	require.Len(t, m.vm.Tasks, 1)
	assert.Equal(t, "h1", m.vm.Tasks[0].ID)
	assert.Equal(t, 2, m.vm.Counts.High+m.vm.Counts.Low, "counts ignore the filter")

	m, _ = update(t, m, key("s"))
	assert.Equal(t, view.SortDate, m.state.Sort())
}

func TestSearch(t *testing.T) {
	m, _ := newModel(t, source.Static(fixture()))
	m = loaded(t, m)

	m, _ = update(t, m, key("/"))
	require.True(t, m.searching)
	for _, r := range "kernel" {
		m, _ = update(t, m, key(string(r)))
	}
	assert.Equal(t, "kernel", m.state.Query())
	require.Len(t, m.vm.Tasks, 1)
	assert.Equal(t, "h1", m.vm.Tasks[0].ID)

	m, _ = update(t, m, key("esc"))
	assert.False(t, m.searching)
	assert.Empty(t, m.state.Query())
	assert.Len(t, m.vm.Tasks, 2)
}

func TestDetailModal(t *testing.T) {
	m, _ := newModel(t, source.Static(fixture()))
	m = loaded(t, m)

	m, _ = update(t, m, key("enter"))
	require.NotNil(t, m.detail)
	assert.Equal(t, "h1", m.detail.ID)

	out := m.View()
	assert.Contains(t, out, "Apply the kernel update")
	assert.Contains(t, out, "Open in Notion: https://notion.so/h1")

	m, _ = update(t, m, key("esc"))
	assert.Nil(t, m.detail)

	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, key("enter"))
	require.NotNil(t, m.detail)
	assert.Equal(t, "l1", m.detail.ID)
	assert.Contains(t, m.View(), "No description")
}

func TestToastExpires(t *testing.T) {
	m, _ := newModel(t, source.Static(nil))

	m, _ = update(t, m, notifyMsg{Level: dashboard.LevelSuccess, Message: "Loaded 0 tasks successfully"})
	first := m.toastID
	assert.Contains(t, m.View(), "Loaded 0 tasks successfully")

	m, _ = update(t, m, notifyMsg{Level: dashboard.LevelError, Message: "Failed to load tasks"})
	m, _ = update(t, m, toastExpiredMsg{id: first})
	require.NotNil(t, m.toast, "an older expiry must not hide a newer toast")

	m, _ = update(t, m, toastExpiredMsg{id: m.toastID})
	assert.Nil(t, m.toast)
}

func TestLayouts(t *testing.T) {
	m, _ := newModel(t, source.Static(fixture()))
	m = loaded(t, m)

	board := m.View()
	assert.Contains(t, board, "High Priority (1)")
	assert.Contains(t, board, "No medium priority tasks found")
	assert.Contains(t, board, "1/1 completed")

	m, _ = update(t, m, key("l"))
	assert.Equal(t, LayoutTV, m.layout)
	assert.Contains(t, m.View(), "High Priority (1)")
	m, _ = update(t, m, rotateMsg{})
	assert.Contains(t, m.View(), "Medium Priority (0)")

	m, _ = update(t, m, key("l"))
	assert.Equal(t, LayoutMobile, m.layout)
	assert.Contains(t, m.View(), "Tidy wiki")
}

func boardFixture() []record.Batch {
	b := fixture()
	b[0].Records = append(b[0].Records, record.RawRecord{ID: "h2", Properties: map[string]record.PropertyValue{
		"Name": record.Title("Rotate keys"),
	}})
	return b
}

func TestBoardCursorStaysInFocusedColumn(t *testing.T) {
	m, _ := newModel(t, source.Static(boardFixture()))
	m = loaded(t, m)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "h2", sel.ID, "down stops at the end of the high column")

	m, _ = update(t, m, key("right"))
	_, ok = m.Selected()
	assert.False(t, ok, "the medium column is empty")

	m, _ = update(t, m, key("right"))
	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, "l1", sel.ID)

	m, _ = update(t, m, key("right"))
	assert.Equal(t, 0, m.section, "focus wraps to the high column")
}

func TestTVCursorFollowsShownSection(t *testing.T) {
	m, _ := newModel(t, source.Static(fixture()))
	m = loaded(t, m)
	m, _ = update(t, m, key("l"))
	require.Equal(t, LayoutTV, m.layout)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))
	require.NotNil(t, m.detail)
	assert.Equal(t, "h1", m.detail.ID, "only the high section is on screen")
	m, _ = update(t, m, key("esc"))

	m, _ = update(t, m, rotateMsg{})
	m, _ = update(t, m, key("enter"))
	assert.Nil(t, m.detail, "the medium section is empty")

	m, _ = update(t, m, rotateMsg{})
	m, _ = update(t, m, key("enter"))
	require.NotNil(t, m.detail)
	assert.Equal(t, "l1", m.detail.ID)
}

func TestRotateResetsCursor(t *testing.T) {
	m, _ := newModel(t, source.Static(boardFixture()))
	m = loaded(t, m)
	m, _ = update(t, m, key("l"))
	m, _ = update(t, m, key("down"))
	require.Equal(t, 1, m.cursor)

	m, _ = update(t, m, rotateMsg{})
	assert.Equal(t, 1, m.section)
	assert.Equal(t, 0, m.cursor)
}

func TestMobileCursorWalksAllTasks(t *testing.T) {
	m, _ := newModel(t, source.Static(fixture()))
	m = loaded(t, m)
	m, _ = update(t, m, key("l"))
	m, _ = update(t, m, key("l"))
	require.Equal(t, LayoutMobile, m.layout)

	m, _ = update(t, m, key("down"))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "l1", sel.ID)
}

func TestRefreshKeySetsLoading(t *testing.T) {
	m, _ := newModel(t, source.Static(fixture()))
	m = loaded(t, m)
	require.False(t, m.loading)

	m, cmd := update(t, m, key("r"))
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	m, _ = update(t, m, refreshTickMsg{})
	assert.True(t, m.loading)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("tv")
	require.NoError(t, err)
	assert.Equal(t, LayoutTV, l)

	_, err = ParseLayout("wall")
	var le tberrors.InvalidLayoutError
	assert.True(t, errors.As(err, &le))
}

func TestNext(t *testing.T) {
	assert.Equal(t, view.FilterAll, next(view.Filters(), view.FilterCompleted))
	assert.Equal(t, view.FilterAll, next(view.Filters(), view.Filter("bogus")))
}
