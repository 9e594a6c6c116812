// Package timestamp converts the heterogeneous time encodings found in
// script documents into seconds, and back into the transcoder's argument
// format.
package timestamp

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a string matches no supported encoding.
var ErrMalformed = errors.New("malformed timestamp")

var (
	reSeconds = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reClock   = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{1,2})(?:\.(\d+))?$`)
)

// Parse converts a timestamp string to seconds. Supported forms, tried in
// order: bare decimal seconds ("64.821", "3846"), H:MM:SS.fff or MM:SS.fff,
// and H:MM:SS or MM:SS. The hour component is always optional. The fractional
// part is normalized to exactly three digits, so "1:03:55.06" carries 60ms.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	if reSeconds.MatchString(s) {
		sec, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		return sec, nil
	}

	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	millis := 0
	if m[4] != "" {
		frac := m[4]
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		millis, _ = strconv.Atoi(frac)
	}

	total := float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
	return total, nil
}

// ToTranscoderFormat renders seconds as "HH:MM:SS.mmm" for external tool
// arguments. Negative inputs clamp to zero.
func ToTranscoderFormat(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
