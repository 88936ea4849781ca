package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"google.golang.org/api/option"

	"github.com/gronsdodgeball/dodge/internal/core"
)

var fetchNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// newTestAdapter points the adapter at a stub calendar endpoint.
func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewWithAPIKey(context.Background(), "test-key", "club-calendar",
		option.WithEndpoint(server.URL))
	if err != nil {
		t.Fatalf("NewWithAPIKey: %v", err)
	}
	return adapter, server
}

func TestFetchUpcoming_QueryShape(t *testing.T) {
	var query url.Values
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": []}`))
	})

	if _, err := adapter.FetchUpcoming(context.Background(), fetchNow); err != nil {
		t.Fatalf("FetchUpcoming: %v", err)
	}

	checks := map[string]string{
		"maxResults":   "10",
		"singleEvents": "true",
		"orderBy":      "startTime",
		"timeMin":      fetchNow.Format(time.RFC3339),
		"key":          "test-key",
	}
	for param, want := range checks {
		if got := query.Get(param); got != want {
			t.Errorf("query %s = %q, want %q", param, got, want)
		}
	}
}

func TestFetchUpcoming_Normalization(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{
					"id": "evt1",
					"summary": "Youth Clinic",
					"location": "Sportcentrum Europapark",
					"start": {"dateTime": "2025-06-01T10:00:00Z"}
				},
				{
					"id": "evt2",
					"location": "Main Hall",
					"start": {"dateTime": "2025-06-08T17:30:00Z"},
					"end": {"dateTime": "2025-06-08T19:30:00Z"}
				},
				{
					"id": "evt3",
					"summary": "Summer Break",
					"start": {"date": "2025-07-01"},
					"end": {"date": "2025-07-02"}
				}
			]
		}`))
	})

	sessions, err := adapter.FetchUpcoming(context.Background(), fetchNow)
	if err != nil {
		t.Fatalf("FetchUpcoming: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions, want 3", len(sessions))
	}

	// Missing end: derived as start + 2h.
	first := sessions[0]
	wantEnd := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !first.End.Equal(wantEnd) {
		t.Errorf("evt1 End = %v, want %v", first.End, wantEnd)
	}
	if first.IsAllDay {
		t.Error("evt1 should not be all-day")
	}

	// Missing summary: default title substituted.
	second := sessions[1]
	if second.Title != core.DefaultTitle {
		t.Errorf("evt2 Title = %q, want %q", second.Title, core.DefaultTitle)
	}
	if second.Duration() != 2*time.Hour {
		t.Errorf("evt2 Duration = %v, want 2h", second.Duration())
	}

	// Date-only start: all-day, anchored to the club zone.
	third := sessions[2]
	if !third.IsAllDay {
		t.Error("evt3 should be all-day")
	}
	wantStart := time.Date(2025, 7, 1, 0, 0, 0, 0, core.ClubZone())
	if !third.Start.Equal(wantStart) {
		t.Errorf("evt3 Start = %v, want %v", third.Start, wantStart)
	}

	// The invariant holds for everything the adapter lets through.
	for _, s := range sessions {
		if s.End.Before(s.Start) {
			t.Errorf("session %s: End %v before Start %v", s.ID, s.End, s.Start)
		}
	}
}

func TestFetchUpcoming_Empty(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	sessions, err := adapter.FetchUpcoming(context.Background(), fetchNow)
	if err != nil {
		t.Fatalf("FetchUpcoming: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions, want 0", len(sessions))
	}
}

func TestFetchUpcoming_ServerError(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := adapter.FetchUpcoming(context.Background(), fetchNow)
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}

	var fetchErr *core.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %T is not a *core.FetchError", err)
	}
	if fetchErr.Kind != core.ErrTransport {
		t.Errorf("Kind = %v, want ErrTransport", fetchErr.Kind)
	}
}

func TestFetchUpcoming_MalformedBody(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [`))
	})

	_, err := adapter.FetchUpcoming(context.Background(), fetchNow)
	if err == nil {
		t.Fatal("expected an error for a truncated body")
	}

	var fetchErr *core.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %T is not a *core.FetchError", err)
	}
	if fetchErr.Kind != core.ErrParse {
		t.Errorf("Kind = %v, want ErrParse", fetchErr.Kind)
	}
}

func TestFetchUpcoming_BadTimestamp(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"id": "evt1", "summary": "Session", "start": {"dateTime": "not-a-time"}}]}`))
	})

	_, err := adapter.FetchUpcoming(context.Background(), fetchNow)
	if err == nil {
		t.Fatal("expected an error for a bad timestamp")
	}

	var fetchErr *core.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %T is not a *core.FetchError", err)
	}
	if fetchErr.Kind != core.ErrParse {
		t.Errorf("Kind = %v, want ErrParse", fetchErr.Kind)
	}
}

func TestNormalizeEvent_InvertedEnd(t *testing.T) {
	// An end before the start is treated like a missing end.
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [{
				"id": "evt1",
				"summary": "Session",
				"start": {"dateTime": "2025-06-01T10:00:00Z"},
				"end": {"dateTime": "2025-06-01T08:00:00Z"}
			}]
		}`))
	})

	sessions, err := adapter.FetchUpcoming(context.Background(), fetchNow)
	if err != nil {
		t.Fatalf("FetchUpcoming: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}

	s := sessions[0]
	if s.End.Before(s.Start) {
		t.Errorf("End %v is before Start %v", s.End, s.Start)
	}
	if got := s.Duration(); got != core.DefaultDuration {
		t.Errorf("Duration = %v, want %v", got, core.DefaultDuration)
	}
}
