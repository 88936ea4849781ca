// Package classify derives presentation-ready session records from
// normalized calendar sessions. Everything in here is pure: no I/O, no
// clocks beyond the instant passed in.
package classify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gronsdodgeball/dodge/internal/core"
)

// Category tags how a session is presented and what actions it offers.
type Category int

const (
	// CategoryNone is a regular indoor session.
	CategoryNone Category = iota
	// CategoryOutdoors marks sessions at the outdoor field.
	CategoryOutdoors
	// CategoryRsvpOnly marks ACLO sessions (student-sport access, no tickets).
	CategoryRsvpOnly
	// CategoryNoDodge marks break announcements; nothing to act on.
	CategoryNoDodge
	// CategoryYouth marks youth clinics (separate payment link).
	CategoryYouth
)

// Label returns the badge text shown on the session card, or "" for
// regular sessions that carry no badge.
func (c Category) Label() string {
	switch c {
	case CategoryOutdoors:
		return "Outdoors"
	case CategoryRsvpOnly:
		return "RSVP only"
	case CategoryNoDodge:
		return "No Dodge"
	case CategoryYouth:
		return "Youth"
	default:
		return ""
	}
}

const (
	// Location marker for the outdoor field at Kardinge.
	outdoorMarker = "kardingerweg"

	// Fallback for sessions without a location.
	homeCity = "Groningen"

	mapsSearchBase = "https://www.google.com/maps/search/?api=1&query="

	// Fixed payment links; not parameterized by session.
	adultTicketURL = "https://scan.gronsdodgeball.nl/payment/form?payment_link=plink_1RNuWuKPJsqZGRQAFNGt76Oz"
	youthTicketURL = "https://scan.gronsdodgeball.nl/payment/form?payment_link=plink_1RmkDNKPJsqZGRQAab51bJFZ"
)

// Session is a presentation-ready record derived from a core.Session.
// It carries everything a view needs so rendering stays dumb.
type Session struct {
	core.Session

	// DateLabel is the Dutch-formatted start date, e.g. "2 jun. 2025".
	DateLabel string
	// TimeLabel is "19:30 – 21:00" in the club's timezone; all-day
	// sessions show only the start.
	TimeLabel string

	Category Category

	// Actionable is false only for break announcements: no route, no
	// ticket, no share.
	Actionable bool

	// MapsURL is a route search for the session location (or the home
	// city when no location is set). Empty when not actionable.
	MapsURL string
	// TicketURL is one of the two fixed payment links, selected by the
	// youth classification. Empty for RSVP-only and non-actionable
	// sessions.
	TicketURL string

	// InProgress reports whether the session was running at the instant
	// it was classified.
	InProgress bool
}

// Classify derives the display record for one session. It is
// deterministic: the same session and instant always produce the same
// record.
func Classify(s core.Session, now time.Time) Session {
	category := categorize(s)
	actionable := category != CategoryNoDodge

	out := Session{
		Session:    s,
		DateLabel:  FormatDate(s.Start),
		TimeLabel:  formatTimeLabel(s),
		Category:   category,
		Actionable: actionable,
		InProgress: s.InProgress(now),
	}

	if actionable {
		locationQuery := s.Location
		if locationQuery == "" {
			locationQuery = homeCity
		}
		out.MapsURL = mapsSearchBase + url.QueryEscape(locationQuery)

		if category != CategoryRsvpOnly {
			if category == CategoryYouth {
				out.TicketURL = youthTicketURL
			} else {
				out.TicketURL = adultTicketURL
			}
		}
	}

	return out
}

// All classifies a fetch result in order.
func All(sessions []core.Session, now time.Time) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, Classify(s, now))
	}
	return out
}

// categorize applies the badge rules in fixed priority order; the first
// match wins. The location check deliberately runs before any title
// check: an outdoor youth clinic is badged "Outdoors".
func categorize(s core.Session) Category {
	title := strings.ToLower(s.Title)
	location := strings.ToLower(s.Location)

	switch {
	case strings.Contains(location, outdoorMarker):
		return CategoryOutdoors
	case strings.Contains(title, "aclo"):
		return CategoryRsvpOnly
	case strings.Contains(title, "summer break"):
		return CategoryNoDodge
	case strings.Contains(title, "youth"):
		return CategoryYouth
	default:
		return CategoryNone
	}
}

// Dutch short month names, matching the site's nl-NL date formatting.
var dutchMonths = [...]string{
	"jan.", "feb.", "mrt.", "apr.", "mei", "jun.",
	"jul.", "aug.", "sep.", "okt.", "nov.", "dec.",
}

// FormatDate renders t as the site does: day, Dutch short month, year.
func FormatDate(t time.Time) string {
	local := t.In(core.ClubZone())
	return fmt.Sprintf("%d %s %d", local.Day(), dutchMonths[local.Month()-1], local.Year())
}

// FormatTime renders t as 24-hour HH:MM in the club's timezone.
func FormatTime(t time.Time) string {
	return t.In(core.ClubZone()).Format("15:04")
}

func formatTimeLabel(s core.Session) string {
	if s.IsAllDay {
		return FormatTime(s.Start)
	}
	return FormatTime(s.Start) + " – " + FormatTime(s.End)
}
