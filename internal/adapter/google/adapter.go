// Package google reads the club's session feed from a Google Calendar.
// The public club calendar is read with an API key, matching how the
// website queries it; an OAuth mode exists for private calendars.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gronsdodgeball/dodge/internal/core"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Adapter issues a single bounded events query against one calendar and
// normalizes the result. It never retries, caches, or writes back.
type Adapter struct {
	calendarID string
	service    *calendar.Service
}

// NewWithAPIKey builds an adapter for a public calendar. Extra client
// options are appended after the key, so tests can override the endpoint.
func NewWithAPIKey(ctx context.Context, apiKey, calendarID string, extra ...option.ClientOption) (*Adapter, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extra...)
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init calendar service: %w", err)
	}
	return &Adapter{calendarID: calendarID, service: service}, nil
}

// NewWithOAuth builds an adapter that reads a private calendar using a
// stored OAuth token. Run `dodge auth` first to generate the token file.
func NewWithOAuth(ctx context.Context, credsFile, tokenFile, calendarID string) (*Adapter, error) {
	b, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file (run 'dodge auth' first): %w", err)
	}

	client := config.Client(ctx, tok)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("init calendar service: %w", err)
	}
	return &Adapter{calendarID: calendarID, service: service}, nil
}

// tokenFromFile reads an OAuth token from a JSON file.
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// FetchUpcoming implements core.SessionSource: one query, at most
// core.MaxUpcoming results, starting at or after now, ascending by start
// time, recurring entries pre-expanded by the service.
func (a *Adapter) FetchUpcoming(ctx context.Context, now time.Time) ([]core.Session, error) {
	result, err := a.service.Events.List(a.calendarID).
		MaxResults(core.MaxUpcoming).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(now.Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyFetchErr(err)
	}

	sessions := make([]core.Session, 0, len(result.Items))
	for _, item := range result.Items {
		session, err := normalizeEvent(item)
		if err != nil {
			return nil, core.ParseError(err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// classifyFetchErr maps an Events.List failure onto the fetch error
// taxonomy: HTTP-level and network failures are transport errors, a body
// that does not decode is a parse error.
func classifyFetchErr(err error) *core.FetchError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return core.TransportError(fmt.Errorf("calendar api returned %d: %w", apiErr.Code, err))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return core.ParseError(err)
	}

	return core.TransportError(err)
}

// normalizeEvent converts one raw calendar item to a Session and
// enforces its invariants: a non-empty title, and an end at or after the
// start (missing or inverted ends get Start + DefaultDuration).
func normalizeEvent(item *calendar.Event) (core.Session, error) {
	title := item.Summary
	if title == "" {
		title = core.DefaultTitle
	}

	start, isAllDay, err := parseEventTime(item.Start)
	if err != nil {
		return core.Session{}, fmt.Errorf("event %s start: %w", item.Id, err)
	}

	end := start.Add(core.DefaultDuration)
	if item.End != nil && (item.End.DateTime != "" || item.End.Date != "") {
		parsed, _, perr := parseEventTime(item.End)
		if perr != nil {
			return core.Session{}, fmt.Errorf("event %s end: %w", item.Id, perr)
		}
		if !parsed.Before(start) {
			end = parsed
		}
	}

	return core.Session{
		ID:          item.Id,
		Title:       title,
		Location:    item.Location,
		Description: item.Description,
		Start:       start,
		End:         end,
		IsAllDay:    isAllDay,
	}, nil
}

// parseEventTime reads a calendar timestamp: RFC 3339 for timed events,
// a bare date for all-day events. All-day dates are anchored to the
// club's timezone so the displayed day never shifts.
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool, error) {
	if t == nil {
		return time.Time{}, false, errors.New("missing time")
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("bad timestamp %q: %w", t.DateTime, err)
		}
		return parsed, false, nil
	}
	if t.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", t.Date, core.ClubZone())
		if err != nil {
			return time.Time{}, false, fmt.Errorf("bad date %q: %w", t.Date, err)
		}
		return parsed, true, nil
	}
	return time.Time{}, false, errors.New("missing time")
}
