package handlers

import (
	"fmt"
	"time"
)

// humanizePast renders an elapsed duration the way a person would say it,
// rough accuracy: "just now", "a minute ago", "3 hours ago", "2 years ago".
func humanizePast(d time.Duration) string {
	switch {
	case d < 15*time.Second:
		return "just now"
	case d < 90*time.Second:
		return "a minute ago"
	case d < 45*time.Minute:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()+0.5))
	case d < 90*time.Minute:
		return "an hour ago"
	case d < 22*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()+0.5))
	case d < 36*time.Hour:
		return "a day ago"
	case d < 25*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24+0.5))
	case d < 45*24*time.Hour:
		return "a month ago"
	case d < 345*24*time.Hour:
		return fmt.Sprintf("%d months ago", int(d.Hours()/(24*30)+0.5))
	case d < 548*24*time.Hour:
		return "a year ago"
	default:
		return fmt.Sprintf("%d years ago", int(d.Hours()/(24*365)+0.5))
	}
}
