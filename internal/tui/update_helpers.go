package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/countclock/internal/countdown"
)

// handleKey processes timer-screen key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.timer.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()

	case key.Matches(msg, m.keys.Reset):
		m.timer.Reset()
		m.setStatus("Reset")
		return m, nil

	case key.Matches(msg, m.keys.Minutes):
		minutes := int(msg.Runes[0] - '0')
		if minutes < 1 || minutes > maxDigitMinutes {
			return m, nil
		}
		m.setDuration(minutes * secondsPerMinute)
		return m, nil

	case key.Matches(msg, m.keys.Preset):
		if len(m.presets) == 0 {
			return m, nil
		}
		next := (m.presetIndex + 1) % len(m.presets)
		if m.setDuration(m.presets[next]) {
			m.presetIndex = next
		}
		return m, nil

	case key.Matches(msg, m.keys.Target):
		if m.timer.State().Running {
			m.setError(countdown.ErrRunning)
			return m, nil
		}
		m.screen = screenForm
		m.form.focus = 0
		m.form.date.Blur()
		cmd := m.form.name.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Saved):
		if m.store == nil {
			m.setStatus("Saved targets are unavailable")
			return m, nil
		}
		m.syncSavedItems()
		m.screen = screenSaved
		return m, nil
	}

	return m, nil
}

// toggle starts or pauses the countdown. Pausing bumps the timer generation,
// which cancels the frame already in flight.
func (m Model) toggle() (Model, tea.Cmd) {
	if m.timer.Stop() {
		m.setStatus("Paused")
		return m, nil
	}
	if m.targetMode && m.timer.Target().IsZero() {
		m.setError(ErrNoTarget)
		return m, nil
	}
	gen, ok := m.timer.Start()
	if !ok {
		return m, nil
	}
	m.setStatus("")
	return m, m.scheduleFrame(gen)
}

// setDuration switches to duration mode with seconds, only while paused.
func (m *Model) setDuration(seconds int) bool {
	if err := m.timer.SetInitial(seconds); err != nil {
		m.setError(err)
		return false
	}
	m.targetMode = false
	m.targetName = ""
	m.setStatus("Set " + countdown.Format(seconds))
	return true
}

// applyTarget switches to date-countdown mode. An empty or past date leaves
// an inert zero countdown.
func (m *Model) applyTarget(name string, date time.Time) {
	if err := m.timer.SetTarget(date, m.now()); err != nil {
		m.setError(err)
		return
	}
	m.targetMode = true
	m.targetName = name
	if m.timer.Target().IsZero() {
		m.setStatus("Target is in the past")
		return
	}
	m.setStatus("Counting to " + date.Format(dateLayout))
}

// updateForm routes keys to the target form.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		m.timer.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.screen = screenTimer
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.form.focus = 1 - m.form.focus
		var cmd tea.Cmd
		if m.form.focus == 0 {
			m.form.date.Blur()
			cmd = m.form.name.Focus()
		} else {
			m.form.name.Blur()
			cmd = m.form.date.Focus()
		}
		return m, cmd

	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Save):
		name := strings.TrimSpace(m.form.name.Value())
		date, err := parseFormDate(m.form.date.Value())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if key.Matches(msg, m.keys.Save) {
			if m.store == nil {
				m.setStatus("Saved targets are unavailable")
				return m, nil
			}
			if _, err := m.store.Save(name, date); err != nil {
				m.setError(err)
				return m, nil
			}
		}
		m.applyTarget(name, date)
		m.screen = screenTimer
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (f targetForm) update(msg tea.Msg) (targetForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.date, cmd = f.date.Update(msg)
	}
	return f, cmd
}

// updateSaved routes keys to the saved-target list.
func (m Model) updateSaved(msg tea.KeyMsg) (tea.Model, tea.Cmd) { // nolint:ireturn
	filtering := m.saved.FilterState() == list.Filtering
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		m.timer.Stop()
		return m, tea.Quit

	case !filtering && key.Matches(msg, m.keys.Back):
		m.screen = screenTimer
		return m, nil

	case !filtering && key.Matches(msg, m.keys.Submit):
		it, ok := m.saved.SelectedItem().(savedItem)
		if !ok {
			return m, nil
		}
		if m.timer.State().Running {
			m.setError(countdown.ErrRunning)
			return m, nil
		}
		loaded, err := m.store.Load(it.ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.applyTarget(loaded.Name, loaded.Date)
		m.screen = screenTimer
		return m, nil

	case !filtering && key.Matches(msg, m.keys.Delete):
		it, ok := m.saved.SelectedItem().(savedItem)
		if !ok {
			return m, nil
		}
		if err := m.store.Delete(it.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.syncSavedItems()
		m.setStatus(fmt.Sprintf("Deleted %q", it.Name))
		return m, nil
	}

	var cmd tea.Cmd
	m.saved, cmd = m.saved.Update(msg)
	return m, cmd
}

// syncSavedItems rebuilds the list items from the store.
func (m *Model) syncSavedItems() {
	if m.store == nil {
		return
	}
	saved := m.store.List()
	items := make([]list.Item, 0, len(saved))
	for _, t := range saved {
		items = append(items, savedItem{ID: t.ID, Name: t.Name, Date: t.Date})
	}
	m.saved.SetItems(items)
}

// parseFormDate accepts the form layout in local time, or RFC 3339.
func parseFormDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("enter a date as " + dateLayout)
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q, expected %s", s, dateLayout)
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
