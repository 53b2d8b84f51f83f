package curation

import (
	"fmt"
	"time"
)

const (
	justNowMinutes = 20
	minutesPerHour = 60
	hoursPerDay    = 24
)

// TimeAgo renders t relative to now: "Just now" up to 20 minutes (future times
// included), "{n} mins ago" below an hour, "{h} hour(s) ago" below a day and
// "Jan 2" style dates beyond that. A zero time renders as an empty label.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	minutes := int(now.Sub(t) / time.Minute)
	if minutes <= justNowMinutes {
		return "Just now"
	}
	if minutes < minutesPerHour {
		return fmt.Sprintf("%d mins ago", minutes)
	}

	hours := minutes / minutesPerHour
	if hours < hoursPerDay {
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}

	return t.In(now.Location()).Format("Jan 2")
}
