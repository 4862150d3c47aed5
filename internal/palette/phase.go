package palette

const (
	// dangerSeconds is the final stretch that is always solid red.
	dangerSeconds = 10
	// safeSeconds is the opening stretch that is always solid green.
	safeSeconds = 5
	// windowTrim is subtracted from the initial duration to size the gradient window.
	windowTrim = 14
	// warningSeconds bounds the simple warning state.
	warningSeconds = 60
)

// Phase names the colour policy branch that applies to a timer state.
type Phase int

const (
	PhaseSafe Phase = iota
	PhaseGradient
	PhaseDanger
)

func (p Phase) String() string {
	switch p {
	case PhaseSafe:
		return "safe"
	case PhaseGradient:
		return "gradient"
	case PhaseDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// PhaseOf selects the policy branch. Overtime and the last ten seconds win
// over everything, then the first five seconds of the run.
func PhaseOf(remaining, initial int, negative bool) Phase {
	switch {
	case negative || remaining <= dangerSeconds:
		return PhaseDanger
	case remaining > initial-safeSeconds:
		return PhaseSafe
	default:
		return PhaseGradient
	}
}

// WindowPercent is the gradient input for a state in the gradient phase:
// (initial-5-remaining+1)/(initial-14), clamped to [0, 1]. Durations of 14s
// or less have no usable window and report 0, which maps to red.
func WindowPercent(remaining, initial int) float64 {
	denom := initial - windowTrim
	if denom <= 0 {
		return 0
	}
	pct := float64(initial-safeSeconds-remaining+1) / float64(denom)
	switch {
	case pct < 0:
		return 0
	case pct > 1:
		return 1
	default:
		return pct
	}
}

// ForState returns the display colour for a timer state.
func ForState(remaining, initial int, negative bool) ColorSample {
	switch PhaseOf(remaining, initial, negative) {
	case PhaseDanger:
		return Red
	case PhaseSafe:
		return Green
	default:
		return Gradient(WindowPercent(remaining, initial))
	}
}

// Warning is the simple threshold policy: true during the last minute,
// excluding zero and overtime.
func Warning(remaining int) bool {
	return remaining > 0 && remaining <= warningSeconds
}
