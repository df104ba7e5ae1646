package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts a display timestamp ("M:SS", "MM:SS" or
// "H:MM:SS") into integer seconds. Leading/trailing whitespace is
// tolerated. Returns false for anything else.
func ParseTimestamp(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return 0, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// FormatTimestamp renders seconds as "M:SS" below one hour and
// "H:MM:SS" from one hour up. Round-trips through ParseTimestamp for
// values up to 99:59:59.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
