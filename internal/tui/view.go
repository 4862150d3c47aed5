package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/countclock/internal/countdown"
	"github.com/ensigniasec/countclock/internal/palette"
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var body string
	switch m.screen {
	case screenForm:
		body = renderForm(m)
	case screenSaved:
		body = m.saved.View() + "\n\n" + m.help.ShortHelpView(m.keys.listHelp())
	default:
		body = renderTimer(m)
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func renderTimer(m Model) string {
	st := m.timer.State()
	sample := palette.ForState(st.Remaining, st.Initial, st.Negative)

	var b strings.Builder
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	b.WriteString(renderClock(st, sample))
	b.WriteString("\n\n")
	b.WriteString(renderProgress(m, st))
	b.WriteString("\n")
	b.WriteString(renderState(m, st))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(renderStatus(m.status, m.statusErr))
	}
	b.WriteString("\n\n")
	if m.helpVisible {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func renderHeader(m Model) string {
	title := lipgloss.NewStyle().Bold(true).Render("Count Clock")
	if m.targetMode && m.targetName != "" {
		title += lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(" • " + m.targetName)
	}
	return title
}

// renderClock draws the MM:SS face with a border in the phase colour; the
// border stands in for the translucent glow a browser would draw.
func renderClock(st countdown.State, sample palette.ColorSample) string {
	face := lipgloss.NewStyle().
		Bold(true).
		Foreground(sample.Color()).
		Padding(clockPaddingY, clockPaddingX).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sample.Color())
	return face.Render(countdown.Format(st.Remaining))
}

func renderProgress(m Model, st countdown.State) string {
	pct := 0.0
	if st.Initial > 0 {
		pct = float64(st.Initial-st.Remaining) / float64(st.Initial)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 || st.Negative {
		pct = 1
	}
	bar := m.progress
	if m.width > 0 {
		bar.Width = min(m.width, contentMaxWidth)
	}
	return bar.ViewAs(pct)
}

func renderState(m Model, st countdown.State) string {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	var parts []string
	switch {
	case st.Negative:
		parts = append(parts, badge.Foreground(lipgloss.Color("196")).Render("OVERTIME"))
	case st.Running:
		parts = append(parts, m.spinner.View()+badge.Foreground(lipgloss.Color(runningColor)).Render("RUNNING"))
	default:
		parts = append(parts, badge.Foreground(lipgloss.Color("241")).Render("PAUSED"))
	}
	if palette.Warning(st.Remaining) {
		parts = append(parts, badge.Foreground(lipgloss.Color("208")).Render("LAST MINUTE"))
	}
	return strings.Join(parts, " ")
}

func renderStatus(text string, isErr bool) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if isErr {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	}
	return style.Render(text)
}

func renderForm(m Model) string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("69"))
	content := []string{
		lipgloss.NewStyle().Bold(true).Render("Count down to a date"),
		"",
		m.form.name.View(),
		m.form.date.View(),
	}
	var b strings.Builder
	b.WriteString(border.Render(strings.Join(content, "\n")))
	if m.status != "" && m.statusErr {
		b.WriteString("\n")
		b.WriteString(renderStatus(m.status, true))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.formHelp()))
	return b.String()
}
