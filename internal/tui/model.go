package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/countclock/internal/countdown"
	"github.com/ensigniasec/countclock/internal/targets"
)

// screen selects which view owns the keyboard.
type screen int

const (
	screenTimer screen = iota
	screenForm
	screenSaved
)

// Options configures a Model.
type Options struct {
	Seconds       int
	Presets       []int
	FrameInterval time.Duration
	// Store may be nil, which disables saving and the saved-target list.
	Store *targets.Store
	// Target, when set, starts the model in date-countdown mode.
	Target *targets.SavedTarget
	// Now overrides the wall clock for frames scheduled by the model.
	Now func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	timer         *countdown.Timer
	store         *targets.Store
	presets       []int
	presetIndex   int
	frameInterval time.Duration
	now           func() time.Time

	// date-countdown variant state
	targetMode bool
	targetName string

	screen   screen
	form     targetForm
	saved    list.Model
	progress progress.Model
	spinner  spinner.Model
	help     help.Model

	status      string
	statusErr   bool
	helpVisible bool
	width       int
	height      int
	quitting    bool

	// keymap for consistent keybindings
	keys keyMap
}

// targetForm holds the event name and date inputs.
type targetForm struct {
	name  textinput.Model
	date  textinput.Model
	focus int
}

// NewModel constructs a Model with initial state.
func NewModel(opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = countdown.DefaultFrameInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		timer:         countdown.New(opts.Seconds),
		store:         opts.Store,
		presets:       opts.Presets,
		presetIndex:   -1,
		frameInterval: opts.FrameInterval,
		now:           opts.Now,
		form:          newTargetForm(),
		saved:         newSavedList(opts.Now),
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(progressWidth)),
		spinner:       newSpinner(),
		help:          help.New(),
		keys:          newKeyMap(),
	}
	if opts.Target != nil {
		m.applyTarget(opts.Target.Name, opts.Target.Date)
	}
	return m
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(runningColor))
	return s
}

func newTargetForm() targetForm {
	name := textinput.New()
	name.Placeholder = "Event name"
	name.CharLimit = nameMaxLength
	name.Prompt = "Name: "

	date := textinput.New()
	date.Placeholder = dateLayout
	date.CharLimit = len(time.RFC3339)
	date.Prompt = "When: "

	return targetForm{name: name, date: date}
}

// Timer exposes the underlying countdown, mainly for tests and teardown.
func (m Model) Timer() *countdown.Timer { return m.timer }

// Init implements tea.Model. The spinner ticks for the whole session and is
// only drawn while the countdown runs.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// scheduleFrame returns a command that delivers the next frame for gen.
func (m Model) scheduleFrame(gen uint64) tea.Cmd {
	now := m.now
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return frameMsg{Gen: gen, At: now()}
	})
}
