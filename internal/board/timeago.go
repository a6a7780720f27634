package board

import (
	"fmt"
	"time"
)

// TimeAgo renders a Unix-millisecond timestamp relative to now: "42s ago",
// "5m ago", "3h ago". Future timestamps render as "0s ago".
func TimeAgo(ms int64, now time.Time) string {
	seconds := (now.UnixMilli() - ms) / 1000
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds ago", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	return fmt.Sprintf("%dh ago", minutes/60)
}
