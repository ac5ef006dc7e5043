package format

import (
	"fmt"
	"time"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FileSize renders a byte count the way the status message shows it:
// "0 B", "100.0 B", "1.5 KB", "1.0 GB". Units are capped at GB; only the
// zero case drops the decimal.
func FileSize(size int64) string {
	if size == 0 {
		return "0 B"
	}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}

// Duration renders an elapsed time for the run summary.
func Duration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
