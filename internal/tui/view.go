package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/taskboard/internal/dashboard"
	"github.com/abatilo/taskboard/internal/task"
	"github.com/abatilo/taskboard/internal/view"
)

const (
	defaultWidth = 120
	minColumn    = 24
)

// View renders the dashboard.
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.headerView(), m.searchView())

	switch {
	case m.detail != nil:
		sections = append(sections, m.detailView(*m.detail))
	case m.loading && m.state.Applied() == 0:
		sections = append(sections, m.styles.Muted.Render("Loading tasks..."))
	default:
		sections = append(sections, m.bodyView())
	}

	if m.toast != nil {
		sections = append(sections, m.toastView(*m.toast))
	}
	sections = append(sections, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	c := m.vm.Counts
	title := m.styles.Header.Render("Task Dashboard")
	clock := m.styles.Clock.Render(m.now.Format("Mon Jan 2 15:04:05"))
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Stat.Foreground(colorHigh).Render(fmt.Sprintf("High %d", c.High)),
		m.styles.Stat.Foreground(colorMedium).Render(fmt.Sprintf("Medium %d", c.Medium)),
		m.styles.Stat.Foreground(colorLow).Render(fmt.Sprintf("Low %d", c.Low)),
		m.styles.Stat.Render(fmt.Sprintf("Completed %d", c.Completed)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, title, clock), stats)
}

func (m Model) searchView() string {
	settings := m.styles.Muted.Render(fmt.Sprintf("filter: %s  sort: %s  layout: %s",
		m.state.Filter(), m.state.Sort(), m.layout))
	if !m.searching && m.state.Query() == "" {
		return settings
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.search.View(), "  ", settings)
}

func (m Model) bodyView() string {
	switch m.layout {
	case LayoutTV:
		return m.tvView()
	case LayoutMobile:
		return m.mobileView()
	default:
		return m.boardView()
	}
}

// boardView renders one column per partition.
func (m Model) boardView() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	colWidth := max(minColumn, width/len(task.Partitions)-2) //nolint:mnd // gutter

	columns := make([]string, 0, len(task.Partitions))
	for i, p := range task.Partitions {
		col := m.sectionView(p, m.vm.Board.Get(p), m.vm.Progress[i], colWidth)
		if i == m.section {
			col = m.styles.Focused.Render(col)
		} else {
			col = m.styles.Unfocused.Render(col)
		}
		columns = append(columns, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// tvView renders one partition at a time with a progress bar; the shown
// partition rotates on a timer.
func (m Model) tvView() string {
	p := task.Partitions[m.section]
	prog := m.vm.Progress[m.section]
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.sectionView(p, m.vm.Board.Get(p), prog, width-2), //nolint:mnd // border
		m.bar.ViewAs(prog.Percent()/100),                   //nolint:mnd // ratio
	)
}

// mobileView renders the projected tasks as a single list.
func (m Model) mobileView() string {
	if len(m.vm.Tasks) == 0 {
		return m.styles.Muted.Render("No tasks found")
	}
	var sb strings.Builder
	for i, t := range m.vm.Tasks {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		badge := m.styles.Section[t.Database].UnsetBorderStyle().Render(t.Database.Label())
		fmt.Fprintf(&sb, "%s%s %s\n", marker, badge, t.Title)
		fmt.Fprintf(&sb, "    %s\n", m.styles.Muted.Render(meta(t)))
	}
	return sb.String()
}

func (m Model) sectionView(p task.Partition, tasks []task.Task, prog view.Progress, width int) string {
	selected, _ := m.Selected()

	lines := []string{
		m.styles.Section[p].Width(width).Render(fmt.Sprintf("%s Priority (%d)", p.Label(), len(tasks))),
	}
	if len(tasks) == 0 {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("No %s priority tasks found", p)))
	}
	for _, t := range tasks {
		style := m.styles.Card
		if t.ID == selected.ID {
			style = m.styles.Selected
		}
		lines = append(lines, style.Width(width).Render(t.Title+"\n"+m.styles.Muted.Render(meta(t))))
	}
	lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("%d/%d completed", prog.Completed, prog.Total)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) detailView(t task.Task) string {
	row := func(label, value string) string {
		return m.styles.Label.Render(label) + value
	}
	description := t.Description
	if description == "" {
		description = m.styles.Muted.Render("No description")
	}
	lines := []string{
		m.styles.Section[t.Database].UnsetBorderStyle().Render(t.Title),
		"",
		row("Status", t.Status),
		row("Priority", t.Priority),
		row("Due", view.FormatDate(t.Date)),
		row("Database", t.Database.Label()),
		"",
		description,
	}
	if t.URL != "" {
		lines = append(lines, "", row("Notion", "Open in Notion: "+t.URL))
	}
	return m.styles.Modal.Render(strings.Join(lines, "\n"))
}

func (m Model) toastView(n dashboard.Notification) string {
	if n.Level == dashboard.LevelError {
		return m.styles.Error.Render("✗ " + n.Message)
	}
	return m.styles.Success.Render("✓ " + n.Message)
}

func (m Model) footerView() string {
	if m.detail != nil {
		return m.styles.Footer.Render("esc close")
	}
	if m.searching {
		return m.styles.Footer.Render("enter apply • esc clear")
	}
	return m.styles.Footer.Render("/ search • f filter • s sort • l layout • r refresh • ←/→ section • ↑/↓ select • enter details • q quit")
}

func meta(t task.Task) string {
	return fmt.Sprintf("%s · %s · %s", t.Status, t.Priority, view.FormatDate(t.Date))
}
