// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abatilo/taskboard/internal/dashboard"
	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/task"
	"github.com/abatilo/taskboard/internal/view"
)

// Layout selects how the board is arranged.
type Layout string

const (
	LayoutBoard  Layout = "board"
	LayoutTV     Layout = "tv"
	LayoutMobile Layout = "mobile"
)

// Layouts lists the layouts in cycle order.
func Layouts() []Layout {
	return []Layout{LayoutBoard, LayoutTV, LayoutMobile}
}

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	l := Layout(s)
	if !slices.Contains(Layouts(), l) {
		return "", tberrors.InvalidLayoutError{Value: s}
	}
	return l, nil
}

const notifyBuffer = 16

// Notifier delivers refresh notifications into the program.
type Notifier struct {
	ch chan dashboard.Notification
}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan dashboard.Notification, notifyBuffer)}
}

// Notify queues n. Notifications beyond the buffer are dropped so a stalled
// program never blocks a refresh.
func (n *Notifier) Notify(note dashboard.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		return notifyMsg(<-n.ch)
	}
}

// Options configures the Model.
type Options struct {
	Layout    Layout
	Filter    view.Filter
	Sort      view.SortKey
	Query     string
	Refresh   time.Duration // zero disables periodic refresh
	TVRotate  time.Duration
	ToastTime time.Duration
}

type (
	loadedMsg       dashboard.Result
	notifyMsg       dashboard.Notification
	clockMsg        time.Time
	refreshTickMsg  struct{}
	rotateMsg       struct{}
	toastExpiredMsg struct{ id int }
)

// Model is the bubbletea model of the dashboard.
type Model struct {
	refresher *dashboard.Refresher
	notifier  *Notifier
	opts      Options

	state   view.State
	vm      view.ViewModel
	loading bool

	layout    Layout
	search    textinput.Model
	searching bool
	cursor    int
	detail    *task.Task
	toast     *dashboard.Notification
	toastID   int
	section   int // focused board column, or the section shown on TV
	now       time.Time
	width     int
	bar       progress.Model
	styles    Styles
}

// New creates the Model. The refresher must notify through notifier.
func New(refresher *dashboard.Refresher, notifier *Notifier, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.Prompt = "/ "
	search.CharLimit = 100 //nolint:mnd // search length
	search.Width = 40      //nolint:mnd // search width
	search.SetValue(opts.Query)

	if opts.Layout == "" {
		opts.Layout = LayoutBoard
	}

	m := Model{
		refresher: refresher,
		notifier:  notifier,
		opts:      opts,
		state:     view.NewState(opts.Filter, opts.Sort).WithQuery(opts.Query),
		loading:   true,
		layout:    opts.Layout,
		search:    search,
		now:       time.Now(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)), //nolint:mnd // bar width
		styles:    DefaultStyles(),
	}
	m.vm = m.state.View()
	return m
}

// Init starts the first refresh and the timers.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refresh(), clockTick(), m.notifier.wait()}
	if m.opts.Refresh > 0 {
		cmds = append(cmds, refreshTick(m.opts.Refresh))
	}
	if m.opts.TVRotate > 0 {
		cmds = append(cmds, rotateTick(m.opts.TVRotate))
	}
	return tea.Batch(cmds...)
}

// refresh takes a ticket now, in the update loop, so tickets follow the
// order refreshes were started in.
func (m *Model) refresh() tea.Cmd {
	m.loading = true
	seq := m.refresher.Begin()
	r := m.refresher
	return func() tea.Msg {
		return loadedMsg(r.Load(context.Background(), seq))
	}
}

func clockTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func refreshTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func rotateTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return rotateMsg{} })
}

func toastExpiry(d time.Duration, id int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		if applied, ok := m.refresher.Apply(m.state, dashboard.Result(msg)); ok {
			m.setState(applied)
		}
		return m, nil

	case notifyMsg:
		n := dashboard.Notification(msg)
		m.toast = &n
		m.toastID++
		return m, tea.Batch(toastExpiry(m.opts.ToastTime, m.toastID), m.notifier.wait())

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockTick()

	case refreshTickMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, refreshTick(m.opts.Refresh))

	case rotateMsg:
		if m.layout == LayoutTV {
			m.focus(m.section + 1)
		}
		return m, rotateTick(m.opts.TVRotate)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.setState(m.state.WithQuery(""))
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.setState(m.state.WithQuery(m.search.Value()))
		return m, cmd
	}

	if m.detail != nil {
		switch msg.String() {
		case "esc", "enter", "q":
			m.detail = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case "f":
		m.setState(m.state.WithFilter(next(view.Filters(), m.state.Filter())))
	case "s":
		m.setState(m.state.WithSort(next(view.SortKeys(), m.state.Sort())))
	case "l":
		m.layout = next(Layouts(), m.layout)
		m.focus(0)
	case "r":
		cmd := m.refresh()
		return m, cmd
	case "left", "h", "shift+tab":
		m.focus(m.section - 1)
	case "right", "tab":
		m.focus(m.section + 1)
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = max(0, min(len(m.visible())-1, m.cursor+1))
	case "enter":
		if t, ok := m.Selected(); ok {
			m.detail = &t
		}
	case "esc":
		if m.state.Query() != "" {
			m.search.SetValue("")
			m.setState(m.state.WithQuery(""))
		}
	}
	return m, nil
}

// setState replaces the state and re-projects the view.
func (m *Model) setState(s view.State) {
	m.state = s
	m.vm = s.View()
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// focus shows partition i (wrapping) and moves the cursor to its first task.
// The section is ignored by the mobile layout.
func (m *Model) focus(i int) {
	n := len(task.Partitions)
	m.section = ((i % n) + n) % n
	m.cursor = 0
}

// visible returns the tasks the cursor moves through: the focused column on
// the board, the shown section on TV, every projected task on mobile.
func (m Model) visible() []task.Task {
	if m.layout == LayoutMobile {
		return m.vm.Tasks
	}
	return m.vm.Board.Get(task.Partitions[m.section])
}

// Selected returns the task under the cursor.
func (m Model) Selected() (task.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

// next returns the element after cur, wrapping. Unknown values restart the
// cycle.
func next[T comparable](all []T, cur T) T {
	i := slices.Index(all, cur)
	return all[(i+1)%len(all)]
}
