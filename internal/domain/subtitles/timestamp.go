package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports malformed transcript content with the offending line kept
// for context. It is fatal to the one file being parsed, never to a batch.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseTimestamp converts "HH:MM:SS.mmm" (or comma sub-second separator) to
// seconds. Millisecond precision is preserved exactly: the fraction is parsed
// as an integer millisecond count, not as a decimal.
func ParseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}

	secPart := strings.ReplaceAll(parts[2], ",", ".")
	secFields := strings.SplitN(secPart, ".", 2)
	seconds, err := strconv.Atoi(secFields[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q", s)
	}

	millis := 0
	if len(secFields) == 2 && secFields[1] != "" {
		ms := secFields[1]
		if len(ms) > 3 {
			ms = ms[:3]
		}
		for len(ms) < 3 {
			ms += "0"
		}
		millis, err = strconv.Atoi(ms)
		if err != nil {
			return 0, fmt.Errorf("invalid milliseconds in %q", s)
		}
	}

	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000.0, nil
}

// FormatTimestamp renders seconds as "HH:MM:SS.mmm".
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	millis := int((seconds-float64(total))*1000.0 + 0.5)
	if millis >= 1000 {
		total++
		millis -= 1000
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", total/3600, (total%3600)/60, total%60, millis)
}
