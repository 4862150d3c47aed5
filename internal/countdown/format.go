package countdown

import (
	"fmt"
	"math"
	"time"
)

const secondsPerMinute = 60

// Format renders seconds as MM:SS, zero-padded to two digits each.
// Negative values (overtime) are rendered as -MM:SS of the absolute value.
func Format(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/secondsPerMinute, seconds%secondsPerMinute)
}

// UntilTarget returns the whole seconds left until target, rounded up and
// never negative. A zero target yields 0.
func UntilTarget(target, now time.Time) int {
	if target.IsZero() {
		return 0
	}
	d := target.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
