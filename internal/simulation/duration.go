package simulation

import (
	"fmt"
	"math"
	"time"
)

// FormatSessionDuration renders elapsed time as "H hour(s) and M minute(s)",
// rounded to the nearest minute. Hours are left out when zero and
// "0 minutes" is a valid result.
func FormatSessionDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(math.Round(d.Minutes()))
	hours, minutes := total/60, total%60

	switch {
	case hours == 0:
		return plural(minutes, "minute")
	case minutes == 0:
		return plural(hours, "hour")
	default:
		return plural(hours, "hour") + " and " + plural(minutes, "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
