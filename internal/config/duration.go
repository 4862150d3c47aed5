package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration with text parsing so config files can say
// "5m" or "90s". Both the YAML and TOML decoders use UnmarshalText.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// WholeSeconds returns the duration truncated to whole seconds.
func (d Duration) WholeSeconds() int {
	return int(d.Duration / time.Second)
}
