// Package tui renders the upcoming-sessions timeline: a horizontal row
// of session cards with a scroll progress bar, a staggered entrance
// reveal, and a recurring highlight pulse that walks the cards.
package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/gronsdodgeball/dodge/internal/classify"
	"github.com/gronsdodgeball/dodge/internal/core"
	"github.com/gronsdodgeball/dodge/internal/util"
)

const (
	// ShareURL is the canonical link shared for any session.
	ShareURL = "https://site.gronsdodgeball.nl/#sessions"

	// pulseInterval is how often the highlight walks to the next card.
	pulseInterval = 5 * time.Second

	// revealInterval staggers the entrance of each card.
	revealInterval = 120 * time.Millisecond

	// cardWidth is the inner width of one session card.
	cardWidth = 28
	cardGap   = 2
)

// KeyMap defines the keybindings for the timeline.
type KeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Ticket key.Binding
	Route  key.Binding
	Share  key.Binding
	Reload key.Binding
	Quit   key.Binding
}

var DefaultKeyMap = KeyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous card"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next card"),
	),
	Ticket: key.NewBinding(
		key.WithKeys("enter", "t"),
		key.WithHelp("t", "buy ticket"),
	),
	Route: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "route"),
	),
	Share: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "share"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// loadState is the lifecycle of one mount of the timeline. Once the
// fetch settles into ready, empty, or error, only a full remount
// (reload) leaves that state.
type loadState int

const (
	stateLoading loadState = iota
	stateReady
	stateEmpty
	stateError
)

// Messages
type sessionsLoadedMsg struct {
	gen      int
	sessions []classify.Session
	err      error
}

type revealMsg struct{ gen int }

type pulseMsg struct{ gen int }

type shareDoneMsg struct {
	copied bool
	text   string
}

// Model is the Bubble Tea model for the session timeline.
type Model struct {
	source core.SessionSource
	keys   KeyMap

	state    loadState
	err      error
	sessions []classify.Session

	// gen is bumped on every (re)mount; timer messages from a previous
	// mount carry the old value and are dropped, so a rapid reload never
	// double-schedules the pulse loop.
	gen int

	selected    int // card the actions apply to
	offset      int // first visible card
	highlighted int // card receiving the pulse, -1 before the first pulse
	revealed    int // cards that have finished their entrance

	width  int
	height int
	status string
}

// NewModel creates a timeline over the given session source.
func NewModel(source core.SessionSource) Model {
	return Model{
		source:      source,
		keys:        DefaultKeyMap,
		state:       stateLoading,
		highlighted: -1,
	}
}

// Commands

func (m Model) fetchCmd() tea.Cmd {
	gen := m.gen
	source := m.source
	return func() tea.Msg {
		now := time.Now()
		sessions, err := source.FetchUpcoming(context.Background(), now)
		if err != nil {
			return sessionsLoadedMsg{gen: gen, err: err}
		}
		return sessionsLoadedMsg{gen: gen, sessions: classify.All(sessions, now)}
	}
}

func revealCmd(gen int) tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealMsg{gen: gen}
	})
}

func pulseCmd(gen int) tea.Cmd {
	return tea.Tick(pulseInterval, func(time.Time) tea.Msg {
		return pulseMsg{gen: gen}
	})
}

// shareCmd tries the system clipboard as the native share target. When
// no clipboard tool is available the share text is presented in the
// status line for manual copy; the failure itself is only logged.
func shareCmd(title string) tea.Cmd {
	return func() tea.Msg {
		text := title + "\n" + ShareURL
		if err := copyToClipboard(text); err != nil {
			fmt.Fprintln(os.Stderr, "share failed:", err)
			return shareDoneMsg{copied: false, text: text}
		}
		return shareDoneMsg{copied: true, text: text}
	}
}

func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		}
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// openURL opens a URL in the default browser.
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			return nil
		}
		_ = cmd.Start()
		return nil
	}
}

// Init issues the one-shot fetch. Nothing animates until it settles.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampView()
		return m, nil

	case sessionsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.state = stateError
			m.err = msg.err
			fmt.Fprintln(os.Stderr, "fetch failed:", msg.err)
			return m, nil
		}
		if len(msg.sessions) == 0 {
			m.state = stateEmpty
			return m, nil
		}
		m.state = stateReady
		m.sessions = msg.sessions
		return m, tea.Batch(revealCmd(m.gen), pulseCmd(m.gen))

	case revealMsg:
		if msg.gen != m.gen || m.state != stateReady {
			return m, nil
		}
		if m.revealed < len(m.sessions) {
			m.revealed++
		}
		if m.revealed < len(m.sessions) {
			return m, revealCmd(m.gen)
		}
		return m, nil

	case pulseMsg:
		if msg.gen != m.gen || m.state != stateReady || len(m.sessions) == 0 {
			// Nothing to pulse; the loop ends here instead of idling.
			return m, nil
		}
		m.highlighted = nextHighlight(m.highlighted, len(m.sessions))
		return m, pulseCmd(m.gen)

	case shareDoneMsg:
		if msg.copied {
			m.status = "Share text copied to clipboard"
		} else {
			m.status = "Share this session: " + strings.ReplaceAll(msg.text, "\n", " ")
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Left):
			if m.selected > 0 {
				m.selected--
				m.clampView()
			}
			return m, nil

		case key.Matches(msg, m.keys.Right):
			if m.selected < len(m.sessions)-1 {
				m.selected++
				m.clampView()
			}
			return m, nil

		case key.Matches(msg, m.keys.Ticket):
			if s, ok := m.selectedSession(); ok && s.TicketURL != "" {
				return m, openURL(s.TicketURL)
			}
			return m, nil

		case key.Matches(msg, m.keys.Route):
			if s, ok := m.selectedSession(); ok && s.MapsURL != "" {
				return m, openURL(s.MapsURL)
			}
			return m, nil

		case key.Matches(msg, m.keys.Share):
			if s, ok := m.selectedSession(); ok && s.TicketURL != "" {
				return m, shareCmd(s.Title)
			}
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			// Full remount: every field resets and the generation bump
			// strands the previous mount's timers.
			fresh := NewModel(m.source)
			fresh.gen = m.gen + 1
			fresh.width = m.width
			fresh.height = m.height
			return fresh, fresh.fetchCmd()
		}
	}
	return m, nil
}

func (m Model) selectedSession() (classify.Session, bool) {
	if m.state != stateReady || m.selected >= len(m.sessions) {
		return classify.Session{}, false
	}
	return m.sessions[m.selected], true
}

// visibleCount is how many cards fit the current terminal width.
func (m Model) visibleCount() int {
	per := cardWidth + cardGap + 4 // card + gap + borders/padding
	n := (m.width - 4) / per
	if n < 1 {
		n = 1
	}
	return n
}

// clampView keeps the selected card inside the visible window.
func (m *Model) clampView() {
	visible := m.visibleCount()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
	maxOffset := len(m.sessions) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// nextHighlight advances the pulse index, wrapping to the first card
// after the last. For an empty sequence it stays put.
func nextHighlight(current, n int) int {
	if n <= 0 {
		return current
	}
	return (current + 1) % n
}

// progressPercent mirrors the horizontal scroll progress of the card
// container: 100 * scrollLeft / (scrollWidth - clientWidth), clamped to
// [0,100]. A container narrower than its viewport reports 0.
func progressPercent(scrollLeft, scrollWidth, clientWidth int) float64 {
	maxScroll := scrollWidth - clientWidth
	if maxScroll <= 0 {
		return 0
	}
	p := 100 * float64(scrollLeft) / float64(maxScroll)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// View renders the timeline.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render("UPCOMING SESSIONS")
	subtitle := SubtitleStyle.Render("Swipe or scroll through upcoming games")

	var content string
	switch m.state {
	case stateLoading:
		content = NoticeStyle.Render("Loading sessions...")
	case stateEmpty, stateError:
		// The site shows the same line for both; the states stay
		// distinct internally and the error goes to stderr.
		content = NoticeStyle.Render("No sessions found.")
	default:
		content = m.renderTimeline()
	}

	parts := []string{header, subtitle, content}
	if m.status != "" {
		parts = append(parts, StatusStyle.Render(m.status))
	}
	parts = append(parts, m.renderHelp())

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderTimeline() string {
	visible := m.visibleCount()
	endIdx := m.offset + visible
	if endIdx > len(m.sessions) {
		endIdx = len(m.sessions)
	}

	var cards []string
	for i := m.offset; i < endIdx; i++ {
		if i >= m.revealed {
			// Entrance stagger: not yet revealed cards hold their slot.
			cards = append(cards, m.renderPlaceholder())
			continue
		}
		cards = append(cards, m.renderCard(i))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, interleave(cards, strings.Repeat(" ", cardGap))...)

	bar := m.renderProgressBar(lipgloss.Width(row))
	counter := NoticeStyle.Render(fmt.Sprintf("%d/%d", m.selected+1, len(m.sessions)))

	parts := []string{row, bar, counter}
	if desc := m.renderDescription(); desc != "" {
		parts = append(parts, "", desc)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderCard(i int) string {
	s := m.sessions[i]
	pulsed := i == m.highlighted

	var lines []string

	dateLine := DateStyle.Render(s.DateLabel)
	if badge := s.Category.Label(); badge != "" {
		pad := cardWidth - lipgloss.Width(dateLine) - lipgloss.Width(BadgeStyle.Render(badge))
		if pad < 1 {
			pad = 1
		}
		dateLine += strings.Repeat(" ", pad) + BadgeStyle.Render(badge)
	}
	lines = append(lines, dateLine)
	lines = append(lines, TimeStyle.Render(s.TimeLabel))

	title := util.TruncateText(s.Title, cardWidth)
	lines = append(lines, TitleStyle.Render(title))

	lines = append(lines, m.renderCardActions(s, pulsed))

	body := lipgloss.NewStyle().Width(cardWidth).Render(strings.Join(lines, "\n"))

	switch {
	case pulsed:
		return PulsedCardStyle.Render(body)
	case i == m.selected:
		return SelectedCardStyle.Render(body)
	default:
		return CardStyle.Render(body)
	}
}

// renderCardActions draws the footer of one card: the route link plus
// the ticket and share icons. Non-actionable sessions get none of them.
func (m Model) renderCardActions(s classify.Session, pulsed bool) string {
	if !s.Actionable {
		// Break announcements offer no route, ticket, or share.
		return ""
	}

	iconStyle := ActionStyle
	if pulsed {
		iconStyle = PulseStyle
	}

	route := util.MakeHyperlink(s.MapsURL, LinkStyle.Render("Click for route"))

	var icons []string
	if s.TicketURL != "" {
		icons = append(icons, util.MakeHyperlink(s.TicketURL, iconStyle.Render("[tickets]")))
		icons = append(icons, iconStyle.Render("[share]"))
	}
	if len(icons) == 0 {
		return route
	}
	return route + "  " + strings.Join(icons, " ")
}

func (m Model) renderPlaceholder() string {
	blank := strings.Repeat("\n", 3)
	return CardStyle.Render(lipgloss.NewStyle().Width(cardWidth).Render(blank))
}

func (m Model) renderProgressBar(width int) string {
	if width < 4 {
		width = 4
	}
	percent := progressPercent(m.offset, len(m.sessions), m.visibleCount())
	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	return ProgressFillStyle.Render(strings.Repeat("━", filled)) +
		ProgressTrackStyle.Render(strings.Repeat("─", width-filled))
}

// renderDescription shows the selected session's calendar description,
// converted from HTML to terminal text.
func (m Model) renderDescription() string {
	s, ok := m.selectedSession()
	if !ok || s.Description == "" {
		return ""
	}
	width := m.width - 6
	if width < 20 {
		width = 20
	}
	text := util.HTMLToText(s.Description, width)
	return NoticeStyle.Render(ansi.Wordwrap(text, width, ""))
}

func (m Model) renderHelp() string {
	keys := []string{
		HelpKeyStyle.Render("←/→") + " cards",
		HelpKeyStyle.Render("t") + " ticket",
		HelpKeyStyle.Render("m") + " route",
		HelpKeyStyle.Render("s") + " share",
		HelpKeyStyle.Render("r") + " reload",
		HelpKeyStyle.Render("q") + " quit",
	}
	return HelpStyle.Render(strings.Join(keys, "  •  "))
}

// interleave joins items with sep for JoinHorizontal.
func interleave(items []string, sep string) []string {
	var out []string
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
