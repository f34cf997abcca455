// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/communitypulse/pulse/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableDetailWidth calculates the maximum width for the free-text
// detail column in table output based on terminal width.
func GetMaxTableDetailWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed numeric columns with borders/padding
	available := termWidth - 55
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateCell shortens a cell value to maxLen runes with an ellipsis.
func truncateCell(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
