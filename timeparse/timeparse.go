// Package timeparse normalizes the free-form time text found on race
// results pages into time.Duration values.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/use-agent/splitboard/models"
)

// reClock matches well-formed "HH:MM:SS" or "MM:SS" with sane field ranges.
var reClock = regexp.MustCompile(`^(?:(\d{1,2}):)?([0-5]?\d):([0-5]?\d)$`)

// reDigits captures digit runs for the lenient fallback, which accepts
// locale-specific separators ("1.23.45", "1시간 23분") as long as the
// numeric fields are unambiguous.
var reDigits = regexp.MustCompile(`\d+`)

// Parse converts a time string into an elapsed duration.
//
// Recognized shapes, after trimming surrounding whitespace:
//   - "HH:MM:SS" and "MM:SS" (strict, minute/second fields 0-59)
//   - any text containing exactly three digit runs (hours, minutes, seconds)
//   - any text containing exactly two digit runs (minutes, seconds)
//
// Text matching none of these returns a PARSE_FAILED error; the caller
// decides whether that invalidates the record or just the field.
func Parse(raw string) (time.Duration, error) {
	t := strings.TrimSpace(raw)
	if t == "" {
		return 0, models.NewError(models.ErrCodeParse, "empty time string", nil)
	}

	if m := reClock.FindStringSubmatch(t); m != nil {
		h := atoi(m[1])
		return compose(h, atoi(m[2]), atoi(m[3])), nil
	}

	// Lenient pass: the site occasionally renders unpadded or oddly
	// separated fields. Digit runs keep the field order intact.
	runs := reDigits.FindAllString(t, -1)
	switch len(runs) {
	case 3:
		return compose(atoi(runs[0]), atoi(runs[1]), atoi(runs[2])), nil
	case 2:
		return compose(0, atoi(runs[0]), atoi(runs[1])), nil
	}

	return 0, models.NewError(models.ErrCodeParse,
		fmt.Sprintf("unrecognized time format %q", raw), nil)
}

// ParseClock interprets raw as a wall-clock time of day and returns the
// elapsed duration since raceStart (itself a time of day expressed as an
// offset from midnight). A pass time earlier than the start is taken to be
// past midnight.
//
// Whether a page's pass times are clock times or elapsed times is a race
// property supplied by configuration, not inferred from the text.
func ParseClock(raw string, raceStart time.Duration) (time.Duration, error) {
	clock, err := Parse(raw)
	if err != nil {
		return 0, err
	}
	elapsed := clock - raceStart
	if elapsed < 0 {
		elapsed += 24 * time.Hour
	}
	return elapsed, nil
}

// Format renders a duration as "H:MM:SS". Parse is a left-inverse of
// Format for any non-negative duration below 100 hours.
func Format(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
}

func compose(h, m, s int) time.Duration {
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
