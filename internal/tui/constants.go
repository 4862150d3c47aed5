package tui

// Package-level constants to avoid magic numbers and improve readability.
const (
	secondsPerMinute = 60
	// maxDigitMinutes is the largest minute count a digit key can set.
	maxDigitMinutes = 9

	// clockPaddingX/Y pad the clock face inside its glow border.
	clockPaddingX = 4
	clockPaddingY = 1
	// progressWidth is the fallback bar width before a window size is known.
	progressWidth = 40
	// contentMaxWidth caps the centred column.
	contentMaxWidth = 60

	// listHeight is the saved-target list height in rows.
	listHeight = 12
	// nameMaxLength mirrors the saved-target name limit.
	nameMaxLength = 80

	// dateLayout is the format the target form accepts, in local time.
	dateLayout = "2006-01-02 15:04"
)

// runningColor tints the spinner and RUNNING badge.
const runningColor = "46"
