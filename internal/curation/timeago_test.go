package curation

import (
	"testing"
	"time"
)

func TestTimeAgoBoundaries(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		minutes int
		want    string
	}{
		{0, "Just now"},
		{20, "Just now"},
		{21, "21 mins ago"},
		{59, "59 mins ago"},
		{60, "1 hour ago"},
		{119, "1 hour ago"},
		{120, "2 hours ago"},
		{1439, "23 hours ago"},
		{1440, "Mar 9"},
		{60 * 24 * 40, "Jan 29"},
	}

	for _, tt := range tests {
		pub := now.Add(-time.Duration(tt.minutes) * time.Minute)
		if got := TimeAgo(pub, now); got != tt.want {
			t.Errorf("%d minutes: got %q want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestTimeAgoPartialMinutesRoundDown(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	pub := now.Add(-(21*time.Minute - time.Second))
	if got := TimeAgo(pub, now); got != "Just now" {
		t.Fatalf("got %q want Just now", got)
	}
}

func TestTimeAgoFutureIsJustNow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	if got := TimeAgo(now.Add(3*time.Hour), now); got != "Just now" {
		t.Fatalf("got %q want Just now", got)
	}
}

func TestTimeAgoUsesObserverZoneForDates(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, ist)
	pub := time.Date(2025, time.March, 8, 20, 0, 0, 0, time.UTC) // Mar 9 01:30 IST
	if got := TimeAgo(pub, now); got != "Mar 9" {
		t.Fatalf("got %q want Mar 9", got)
	}
}

func TestTimeAgoZeroTime(t *testing.T) {
	if got := TimeAgo(time.Time{}, time.Now()); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}
