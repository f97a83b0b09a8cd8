package media

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const maxTitleLen = 64

// OutputFileName builds the download filename for an exported segment from
// the highlight title and the export time.
func OutputFileName(title string, ts time.Time) string {
	cleaned := sanitizeTitle(title, maxTitleLen)
	if cleaned == "" {
		cleaned = "highlight"
	}
	return fmt.Sprintf("%s_%d.mp4", cleaned, ts.UnixMilli())
}

// sanitizeTitle keeps letters and digits from any script and replaces
// everything else with underscores, trimming to maxLen runes.
func sanitizeTitle(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "_")
	if maxLen > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLen {
			cleaned = string(runes[:maxLen])
		}
	}
	return cleaned
}
