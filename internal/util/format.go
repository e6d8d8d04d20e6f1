package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatNumber renders a count with K/M suffixes for compact table cells.
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// Truncate shortens a string to at most width display columns, appending
// an ellipsis when anything was cut. Width is measured with runewidth so
// wide characters do not break table alignment.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// MaskToken renders a token for display, keeping only a short prefix and
// suffix so logs never carry full credentials.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "…" + token[len(token)-4:]
}
