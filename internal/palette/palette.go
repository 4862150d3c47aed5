// Package palette derives the countdown display colour from timer state.
//
// Colours are pure functions of (remaining, initial, negative); nothing is
// stored and every sample can be recomputed on each render.
package palette

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

const glowAlpha = 0.7

// ColorSample is an RGB triple.
type ColorSample struct {
	R, G, B uint8
}

//nolint:gochecknoglobals // Fixed colour stops.
var (
	Red    = ColorSample{R: 255}
	Amber  = ColorSample{R: 255, G: 197}
	Yellow = ColorSample{R: 255, G: 255}
	Green  = ColorSample{G: 255}

	// stops are ordered by ascending percent.
	stops = [...]ColorSample{Red, Amber, Yellow}
)

// Hex renders the sample as #rrggbb.
func (c ColorSample) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Glow renders the translucent halo colour used around the clock face.
func (c ColorSample) Glow() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.1f)", c.R, c.G, c.B, glowAlpha)
}

// Color converts the sample for lipgloss styles.
func (c ColorSample) Color() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// Gradient maps percent onto the yellow, amber, red sweep: 1 and above is
// yellow, 0 and below is red, and values between interpolate linearly
// across the stop selected by percent*2 and the one after it.
func Gradient(percent float64) ColorSample {
	if percent >= 1 {
		return Yellow
	}
	if percent <= 0 || math.IsNaN(percent) {
		return Red
	}
	scaled := percent * float64(len(stops)-1)
	idx := int(math.Floor(scaled))
	frac := scaled - float64(idx)
	return lerp(stops[idx], stops[idx+1], frac)
}

func lerp(a, b ColorSample, t float64) ColorSample {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return ColorSample{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}
