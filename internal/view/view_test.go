//nolint:testpackage // Tests require internal access for thorough testing
package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/taskboard/internal/task"
)

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertOrder(t *testing.T, want []string, got []task.Task) {
	t.Helper()
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

// fixture has 3 high, 1 medium and 1 low task; two are completed.
func fixture() []task.Task {
	return []task.Task{
		{ID: "h1", Title: "Audit", Status: "In progress", Priority: "High", Database: task.PartitionHigh, Date: "2024-01-15"},
		{ID: "h2", Title: "billing", Status: "completed", Priority: "High", Database: task.PartitionHigh},
		{ID: "h3", Title: "Cache", Status: "Not started", Priority: "Medium", Database: task.PartitionHigh, Date: "2024-01-10"},
		{ID: "m1", Title: "Docs", Description: "Update API docs", Status: "Not started", Priority: "Medium", Database: task.PartitionMedium, Date: "2024-01-20"},
		{ID: "l1", Title: "Database", Status: "Completed", Priority: "Low", Database: task.PartitionLow, Date: "2024-01-05"},
	}
}

func TestProjectAllReturnsEverything(t *testing.T) {
	tasks := fixture()
	got := Project(tasks, FilterAll, SortKey(""), "")
	assertOrder(t, []string{"h1", "h2", "h3", "m1", "l1"}, got)
}

func TestProjectFilters(t *testing.T) {
	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"h1", "h2", "h3", "m1", "l1"}},
		{FilterHigh, []string{"h1", "h2", "h3"}},
		{FilterMedium, []string{"m1"}},
		{FilterLow, []string{"l1"}},
		{FilterCompleted, []string{"h2", "l1"}},
		{Filter("archived"), []string{"h1", "h2", "h3", "m1", "l1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assertOrder(t, tt.want, Project(fixture(), tt.filter, SortKey("none"), ""))
		})
	}
}

func TestProjectFilterUsesPartitionNotPriority(t *testing.T) {
	// h3 has display priority Medium but lives in the high partition.
	got := Project(fixture(), FilterMedium, SortKey(""), "")
	assertOrder(t, []string{"m1"}, got)
}

func TestProjectQueryOverridesFilter(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Title: "Audit", Status: "Not started", Priority: "High", Database: task.PartitionHigh},
		{ID: "d", Title: "Docs", Status: "Not started", Priority: "Low", Database: task.PartitionLow},
	}
	got := Project(tasks, FilterHigh, SortPriority, "docs")
	assertOrder(t, []string{"d"}, got)
}

func TestSearchFields(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"API DOCS", []string{"m1"}},
		{"progress", []string{"h1"}},
		{"medium", []string{"h3", "m1"}},
		{"complete", []string{"h2", "l1"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assertOrder(t, tt.want, Search(fixture(), tt.query))
		})
	}
}

func TestSortPriorityDescendingAndStable(t *testing.T) {
	tasks := []task.Task{
		{ID: "low", Priority: "Low"},
		{ID: "high", Priority: "High"},
		{ID: "medium", Priority: "Medium"},
		{ID: "high2", Priority: "high"},
		{ID: "odd", Priority: "Urgent"},
	}
	Sort(tasks, SortPriority)
	assertOrder(t, []string{"high", "high2", "medium", "low", "odd"}, tasks)
}

func TestSortDateMissingLast(t *testing.T) {
	tasks := []task.Task{
		{ID: "none"},
		{ID: "jan", Date: "2024-01-01"},
	}
	Sort(tasks, SortDate)
	assertOrder(t, []string{"jan", "none"}, tasks)

	tasks = []task.Task{
		{ID: "garbage", Date: "soon"},
		{ID: "time", Date: "2024-03-01T09:30:00.000+00:00"},
		{ID: "none"},
		{ID: "feb", Date: "2024-02-01"},
	}
	Sort(tasks, SortDate)
	assertOrder(t, []string{"feb", "time", "garbage", "none"}, tasks)
}

func TestSortStatus(t *testing.T) {
	tasks := []task.Task{
		{ID: "done", Status: "Completed"},
		{ID: "blocked", Status: "Blocked"},
		{ID: "todo", Status: "not started"},
		{ID: "wip", Status: "In Progress"},
		{ID: "review", Status: "Review"},
	}
	Sort(tasks, SortStatus)
	assertOrder(t, []string{"todo", "wip", "done", "blocked", "review"}, tasks)
}

func TestSortTitleCollates(t *testing.T) {
	tasks := []task.Task{
		{ID: "z", Title: "zebra"},
		{ID: "B", Title: "Banana"},
		{ID: "a", Title: "apple"},
		{ID: "e", Title: "éclair"},
	}
	Sort(tasks, SortTitle)
	assertOrder(t, []string{"a", "B", "e", "z"}, tasks)
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	tasks := fixture()
	Sort(tasks, SortKey("owner"))
	assertOrder(t, []string{"h1", "h2", "h3", "m1", "l1"}, tasks)
}

func TestProjectDoesNotModifyInput(t *testing.T) {
	tasks := fixture()
	_ = Project(tasks, FilterAll, SortTitle, "")
	assertOrder(t, []string{"h1", "h2", "h3", "m1", "l1"}, tasks)
}

func TestCountIgnoresFilter(t *testing.T) {
	state, ok := NewState(FilterCompleted, SortPriority).WithTasks(1, fixture())
	require.True(t, ok)

	vm := state.View()
	assert.Equal(t, Counts{High: 3, Medium: 1, Low: 1, Completed: 2}, vm.Counts)
	assertOrder(t, []string{"h2", "l1"}, vm.Tasks)

	vm = state.WithQuery("docs").View()
	assert.Equal(t, Counts{High: 3, Medium: 1, Low: 1, Completed: 2}, vm.Counts)
}

func TestProgress(t *testing.T) {
	progress := ProgressOf(fixture())
	require.Len(t, progress, 3)

	assert.Equal(t, Progress{Partition: task.PartitionHigh, Completed: 1, Total: 3}, progress[0])
	assert.InDelta(t, 33.33, progress[0].Percent(), 0.01)
	assert.InDelta(t, 0.0, progress[1].Percent(), 0.0001)
	assert.InDelta(t, 100.0, progress[2].Percent(), 0.0001)

	empty := ProgressOf(nil)
	for _, p := range empty {
		assert.Zero(t, p.Total)
		assert.InDelta(t, 0.0, p.Percent(), 0.0001)
	}
}

func TestGroupKeepsOrder(t *testing.T) {
	sorted := Project(fixture(), FilterAll, SortDate, "")
	board := Group(sorted)
	assertOrder(t, []string{"h3", "h1", "h2"}, board.High)
	assertOrder(t, []string{"m1"}, board.Medium)
	assertOrder(t, []string{"l1"}, board.Low)
	assertOrder(t, []string{"m1"}, board.Get(task.PartitionMedium))
	assert.Nil(t, board.Get(task.Partition("other")))
}

func TestStateIsImmutable(t *testing.T) {
	base := NewState(FilterAll, SortPriority)
	filtered := base.WithFilter(FilterHigh)
	assert.Equal(t, FilterAll, base.Filter())
	assert.Equal(t, FilterHigh, filtered.Filter())

	tasks := fixture()
	loaded, ok := base.WithTasks(1, tasks)
	require.True(t, ok)
	tasks[0].Title = "mutated"
	got, found := loaded.Lookup("h1")
	require.True(t, found)
	assert.Equal(t, "Audit", got.Title)
	assert.Empty(t, base.Tasks())
}

func TestStateDiscardsStaleResults(t *testing.T) {
	s := NewState(FilterAll, SortPriority)

	s, ok := s.WithTasks(2, fixture()[:1])
	require.True(t, ok)

	stale, ok := s.WithTasks(1, fixture())
	assert.False(t, ok)
	assert.Len(t, stale.Tasks(), 1)
	assert.Equal(t, uint64(2), stale.Applied())

	fresh, ok := s.WithTasks(3, fixture())
	assert.True(t, ok)
	assert.Len(t, fresh.Tasks(), 5)
}

func TestParseKeys(t *testing.T) {
	f, ok := ParseFilter(" High ")
	assert.True(t, ok)
	assert.Equal(t, FilterHigh, f)

	_, ok = ParseFilter("archived")
	assert.False(t, ok)

	k, ok := ParseSortKey("TITLE")
	assert.True(t, ok)
	assert.Equal(t, SortTitle, k)

	_, ok = ParseSortKey("owner")
	assert.False(t, ok)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Jan 15, 2024", FormatDate("2024-01-15"))
	assert.Equal(t, "No date", FormatDate(""))
	assert.Equal(t, "No date", FormatDate("tomorrow"))
}
