package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.help.Width = x.Width
		m.saved.SetSize(min(x.Width, contentMaxWidth), listHeight)
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenForm:
			return m.updateForm(x)
		case screenSaved:
			return m.updateSaved(x)
		default:
			return m.handleKey(x)
		}

	case frameMsg:
		_, ticked, live := m.timer.Frame(x.Gen, x.At)
		if !live {
			// A frame that ticked yet ended the chain is an absolute target
			// reaching zero; anything else is stale and dropped.
			if ticked {
				m.setStatus("Target reached")
			}
			return m, nil
		}
		return m, m.scheduleFrame(x.Gen)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(x)
		return m, cmd

	case statusMsg:
		if x.Err != nil {
			m.setError(x.Err)
		} else {
			m.setStatus(x.Text)
		}
		return m, nil
	}

	return m, nil
}
