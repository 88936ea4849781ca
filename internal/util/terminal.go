package util

import "fmt"

// MakeHyperlink wraps displayText in an OSC 8 terminal hyperlink, so
// route and ticket links are clickable without showing the raw URL.
// Uses the BEL terminator for wider terminal compatibility.
func MakeHyperlink(url, displayText string) string {
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, displayText)
}

// TruncateText truncates s to maxLen runes, appending "…" if truncated.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
