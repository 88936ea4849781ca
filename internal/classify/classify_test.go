package classify

import (
	"strings"
	"testing"
	"time"

	"github.com/gronsdodgeball/dodge/internal/core"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func makeSession(title, location string) core.Session {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return core.Session{
		ID:       "s1",
		Title:    title,
		Location: location,
		Start:    start,
		End:      start.Add(core.DefaultDuration),
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		location string
		want     Category
	}{
		{"outdoor field", "Sunday Session", "Kardingerweg 4, Groningen", CategoryOutdoors},
		{"aclo title", "ACLO Session", "Main Hall", CategoryRsvpOnly},
		{"summer break", "Summer Break", "", CategoryNoDodge},
		{"youth title", "Youth Clinic", "Sportcentrum Europapark", CategoryYouth},
		{"plain session", "Sunday Session", "Main Hall", CategoryNone},
		{"case insensitive title", "aClO session", "Main Hall", CategoryRsvpOnly},
		{"case insensitive location", "Sunday Session", "KARDINGERWEG", CategoryOutdoors},
		{"substring match", "Pre-Summer Break BBQ", "", CategoryNoDodge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(makeSession(tt.title, tt.location), testNow)
			if got.Category != tt.want {
				t.Errorf("Classify(%q, %q).Category = %v, want %v", tt.title, tt.location, got.Category, tt.want)
			}
		})
	}
}

func TestCategorize_LocationBeatsTitle(t *testing.T) {
	// A youth clinic at the outdoor field is badged Outdoors, never Youth.
	got := Classify(makeSession("Youth Clinic", "Kardingerweg 4"), testNow)
	if got.Category != CategoryOutdoors {
		t.Errorf("Category = %v, want CategoryOutdoors", got.Category)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	s := makeSession("Youth Clinic", "Main Hall")
	first := Classify(s, testNow)
	for i := 0; i < 5; i++ {
		if got := Classify(s, testNow); got != first {
			t.Fatalf("Classify is not deterministic: run %d differs", i)
		}
	}
}

func TestClassify_Actionable(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Summer Break", false},
		{"ACLO Session", true},
		{"Youth Clinic", true},
		{"Sunday Session", true},
	}

	for _, tt := range tests {
		got := Classify(makeSession(tt.title, "Main Hall"), testNow)
		if got.Actionable != tt.want {
			t.Errorf("Classify(%q).Actionable = %v, want %v", tt.title, got.Actionable, tt.want)
		}
	}
}

func TestClassify_TicketURL(t *testing.T) {
	adult := Classify(makeSession("Sunday Session", "Main Hall"), testNow)
	if !strings.Contains(adult.TicketURL, "plink_1RNuWuKPJsqZGRQAFNGt76Oz") {
		t.Errorf("adult session got ticket URL %q", adult.TicketURL)
	}

	youth := Classify(makeSession("Youth Clinic", "Main Hall"), testNow)
	if !strings.Contains(youth.TicketURL, "plink_1RmkDNKPJsqZGRQAab51bJFZ") {
		t.Errorf("youth session got ticket URL %q", youth.TicketURL)
	}

	// RSVP-only sessions sell no tickets but still offer a route.
	rsvp := Classify(makeSession("ACLO Session", "Main Hall"), testNow)
	if rsvp.TicketURL != "" {
		t.Errorf("RSVP-only session got ticket URL %q", rsvp.TicketURL)
	}
	if rsvp.MapsURL == "" {
		t.Error("RSVP-only session should keep its maps URL")
	}

	// Break announcements offer nothing.
	brk := Classify(makeSession("Summer Break", "Main Hall"), testNow)
	if brk.TicketURL != "" || brk.MapsURL != "" {
		t.Errorf("break announcement got TicketURL=%q MapsURL=%q", brk.TicketURL, brk.MapsURL)
	}
}

func TestClassify_MapsURL(t *testing.T) {
	withLocation := Classify(makeSession("Sunday Session", "Kardingerweg 4, Groningen"), testNow)
	want := "https://www.google.com/maps/search/?api=1&query=Kardingerweg+4%2C+Groningen"
	if withLocation.MapsURL != want {
		t.Errorf("MapsURL = %q, want %q", withLocation.MapsURL, want)
	}

	// Without a location the route falls back to the home city.
	noLocation := Classify(makeSession("Sunday Session", ""), testNow)
	if !strings.Contains(noLocation.MapsURL, "Groningen") {
		t.Errorf("MapsURL without location = %q, want Groningen fallback", noLocation.MapsURL)
	}
}

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryOutdoors, "Outdoors"},
		{CategoryRsvpOnly, "RSVP only"},
		{CategoryNoDodge, "No Dodge"},
		{CategoryYouth, "Youth"},
		{CategoryNone, ""},
	}

	for _, tt := range tests {
		if got := tt.category.Label(); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		instant time.Time
		want    string
	}{
		{time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), "1 jun. 2025"},
		{time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC), "15 mrt. 2025"},
		// 23:30 UTC on the 31st is already the next day in Amsterdam.
		{time.Date(2025, 5, 31, 23, 30, 0, 0, time.UTC), "1 jun. 2025"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.instant); got != tt.want {
			t.Errorf("FormatDate(%v) = %q, want %q", tt.instant, got, tt.want)
		}
	}
}

func TestTimeLabel(t *testing.T) {
	// 19:30–21:30 CEST is 17:30–19:30 UTC in June.
	s := core.Session{
		Title: "Sunday Session",
		Start: time.Date(2025, 6, 1, 17, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC),
	}
	got := Classify(s, testNow)
	if got.TimeLabel != "19:30 – 21:30" {
		t.Errorf("TimeLabel = %q, want %q", got.TimeLabel, "19:30 – 21:30")
	}

	// All-day sessions show only the start, anchored to the club zone.
	allDay := core.Session{
		Title:    "Summer Break",
		Start:    time.Date(2025, 7, 1, 0, 0, 0, 0, core.ClubZone()),
		End:      time.Date(2025, 7, 1, 0, 0, 0, 0, core.ClubZone()).Add(core.DefaultDuration),
		IsAllDay: true,
	}
	got = Classify(allDay, testNow)
	if got.TimeLabel != "00:00" {
		t.Errorf("all-day TimeLabel = %q, want %q", got.TimeLabel, "00:00")
	}
}

func TestClassify_DefaultTitlePassesThrough(t *testing.T) {
	// Normalization upstream substitutes the default title; classify
	// treats it like any other title.
	got := Classify(makeSession(core.DefaultTitle, ""), testNow)
	if got.Category != CategoryNone {
		t.Errorf("Category = %v, want CategoryNone", got.Category)
	}
	if got.Title != core.DefaultTitle {
		t.Errorf("Title = %q, want %q", got.Title, core.DefaultTitle)
	}
}

func TestClassify_InProgress(t *testing.T) {
	s := makeSession("Sunday Session", "Main Hall")

	during := s.Start.Add(30 * time.Minute)
	if got := Classify(s, during); !got.InProgress {
		t.Error("expected InProgress during the session")
	}

	before := s.Start.Add(-time.Hour)
	if got := Classify(s, before); got.InProgress {
		t.Error("expected not InProgress before the session")
	}
}

func TestAll_PreservesOrder(t *testing.T) {
	sessions := []core.Session{
		makeSession("First", ""),
		makeSession("Second", ""),
		makeSession("Third", ""),
	}

	got := All(sessions, testNow)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Title != want {
			t.Errorf("got[%d].Title = %q, want %q", i, got[i].Title, want)
		}
	}

	if empty := All(nil, testNow); len(empty) != 0 {
		t.Errorf("All(nil) = %v, want empty", empty)
	}
}
