package core

import (
	"sync"
	"time"
)

// DefaultTitle is substituted when the calendar entry has no summary.
const DefaultTitle = "Dodgeball Session"

// DefaultDuration is assumed when the calendar entry has no end.
const DefaultDuration = 2 * time.Hour

// Session is one normalized calendar entry for a single dodgeball
// activity occurrence. Adapters must convert their raw data to this
// format. Sessions are built wholesale from one fetch response and are
// immutable afterwards; the next fetch replaces them entirely.
type Session struct {
	// Unique ID (provided by the source)
	ID string
	// Title is never empty; DefaultTitle is substituted when missing.
	Title string
	// Location may be empty (indoor sessions without a hall booked yet).
	Location string
	// Description is optional free text from the calendar, may be HTML.
	Description string
	// Timing. End is always derivable: sources without an end get
	// Start + DefaultDuration.
	Start    time.Time
	End      time.Time
	IsAllDay bool
}

var (
	clubZone     *time.Location
	clubZoneOnce sync.Once
)

// ClubZone returns the club's canonical timezone. All-day dates are
// anchored to it and all display times are rendered in it. Falls back
// to UTC when the tz database is unavailable.
func ClubZone() *time.Location {
	clubZoneOnce.Do(func() {
		loc, err := time.LoadLocation("Europe/Amsterdam")
		if err != nil {
			loc = time.UTC
		}
		clubZone = loc
	})
	return clubZone
}

// Duration returns the length of the session.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// InProgress checks if the session is happening right now.
func (s Session) InProgress(now time.Time) bool {
	return now.After(s.Start) && now.Before(s.End)
}
