package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ensigniasec/countclock/internal/countdown"
)

// savedItem is the list item backing a saved target row.
type savedItem struct {
	ID   int64
	Name string
	Date time.Time
}

// List item interface methods.
func (it savedItem) Title() string       { return it.Name }
func (it savedItem) Description() string { return it.Date.Local().Format(dateLayout) }
func (it savedItem) FilterValue() string { return it.Name }

// savedDelegate renders savedItem rows with the date right-justified.
type savedDelegate struct {
	now func() time.Time
}

func (d savedDelegate) Height() int                             { return 1 }
func (d savedDelegate) Spacing() int                            { return 0 }
func (d savedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d savedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(savedItem)
	if !ok {
		return
	}
	selected := index == m.Index()
	leftPrefix := "  "
	lineStyle := lipgloss.NewStyle()
	if selected {
		leftPrefix = "> "
		lineStyle = lineStyle.Foreground(lipgloss.Color("69")).Bold(true)
	}

	left := fmt.Sprintf("%s%02d. %s", leftPrefix, index+1, it.Name)

	right := it.Description()
	if countdown.UntilTarget(it.Date, d.now()) == 0 {
		right += " " + lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("(past)")
	}

	// Long names are cut so the date column stays on the row.
	if room := m.Width() - ansi.StringWidth(right) - 1; room > 0 && ansi.StringWidth(left) > room {
		left = ansi.Truncate(left, room, "…")
	}

	padding := m.Width() - ansi.StringWidth(left) - ansi.StringWidth(right)
	if padding < 1 {
		padding = 1
	}

	line := left + spaces(padding) + right
	_, _ = fmt.Fprint(w, lineStyle.Render(line))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(n).Render("")
}

func newSavedList(now func() time.Time) list.Model {
	lst := list.New([]list.Item{}, savedDelegate{now: now}, contentMaxWidth, listHeight)
	lst.Title = "Saved targets"
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()
	lst.SetStatusBarItemName("target", "targets")
	return lst
}
