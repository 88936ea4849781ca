package util

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// Session descriptions come back from the calendar as fragments of HTML
// (paragraphs, line breaks, the odd signup link). The terminal wants
// plain text with clickable links.
var (
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	anchorRe      = regexp.MustCompile(`(?i)<a\s[^>]*href\s*=\s*["']([^"']*)["'][^>]*>`)
	anchorCloseRe = regexp.MustCompile(`(?i)</a\s*>`)
	breakRe       = regexp.MustCompile(`(?i)<br\s*/?\s*>|</(?:p|div|h[1-6])\s*>`)
	listItemRe    = regexp.MustCompile(`(?i)<li(?:\s[^>]*)?\s*>`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
	spaceRunsRe   = regexp.MustCompile(`[^\S\n]+`)
)

// HTMLToText converts a calendar description to readable terminal text.
// Anchors become OSC 8 hyperlinks with display text truncated to width;
// pass width <= 0 to skip truncation.
func HTMLToText(s string, width int) string {
	if s == "" {
		return s
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = breakRe.ReplaceAllString(s, "\n")
	s = listItemRe.ReplaceAllString(s, "\n• ")
	s = convertAnchors(s, width)
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	s = spaceRunsRe.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// convertAnchors replaces <a href="url">text</a> with clickable OSC 8
// hyperlinks. Google redirect wrappers are unwrapped to the real target.
func convertAnchors(s string, maxWidth int) string {
	for {
		open := anchorRe.FindStringSubmatchIndex(s)
		if open == nil {
			return s
		}

		href := unwrapRedirect(s[open[2]:open[3]])
		rest := s[open[1]:]

		closeLoc := anchorCloseRe.FindStringIndex(rest)
		if closeLoc == nil {
			// Unclosed anchor: drop the tag and keep going.
			s = s[:open[0]] + rest
			continue
		}

		text := strings.TrimSpace(tagRe.ReplaceAllString(rest[:closeLoc[0]], ""))
		if text == "" {
			text = href
		}
		if maxWidth > 0 {
			text = TruncateText(text, maxWidth)
		}

		s = s[:open[0]] + MakeHyperlink(href, text) + rest[closeLoc[1]:]
	}
}

// unwrapRedirect extracts the target from Google redirect URLs like
// https://www.google.com/url?q=REAL_URL&...
func unwrapRedirect(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Host == "www.google.com" && u.Path == "/url" {
		if q := u.Query().Get("q"); q != "" {
			return q
		}
	}
	return rawURL
}
