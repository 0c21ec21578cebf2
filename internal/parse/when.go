package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var epochRe = regexp.MustCompile(`^\d{9,11}$`)

// Time parses the timestamp formats accepted at the recommendation entry
// point: RFC 3339 (with or without zone), "2006-01-02 15:04:05", and epoch
// seconds. Zoned inputs are converted to local time so that hour-of-day
// scoring sees wall-clock hours.
func Time(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if epochRe.MatchString(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("unable to parse epoch timestamp %q: %w", raw, err)
		}
		return time.Unix(secs, 0), nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	} {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", raw)
}
