package parse

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidDate means the input could not be parsed as a date at all.
	ErrInvalidDate = errors.New("invalid date")
	// ErrDateOutOfRange means the date parsed but falls outside the range
	// name history covers (before 2006, or in the future).
	ErrDateOutOfRange = errors.New("date out of range")
)

// DateHelp is the shared help text referenced by every date-taking command.
const DateHelp = "Dates look like `M/D/YY`, `M/D/YYYY` or a unix timestamp, " +
	"with an optional time like `2:47:32` or `11:15 pm`. Example: `3/2/06 2:47:32`."

// earliestTimestamp is 2006-01-01 UTC; nothing meaningful predates it.
var earliestTimestamp = time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"1/2/06",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/06 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/06 3:04 pm",
	"1/2/2006 3:04 pm",
	"1/2/06 3:04:05 pm",
	"1/2/2006 3:04:05 pm",
}

// Timestamp converts a free-form date argument sequence into unix seconds.
// A single all-digit token is taken as a unix timestamp directly. Parse
// failure and out-of-range are signalled distinctly so callers can produce
// consistent error text referencing DateHelp.
func Timestamp(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrInvalidDate
	}

	if len(args) == 1 && isDigits(args[0]) {
		ts, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, ErrInvalidDate
		}
		return checkRange(time.Unix(ts, 0))
	}

	joined := strings.ToLower(strings.Join(args, " "))
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, joined, time.UTC)
		if err == nil {
			return checkRange(t)
		}
	}
	return 0, ErrInvalidDate
}

func checkRange(t time.Time) (int64, error) {
	if t.Before(earliestTimestamp) || t.After(time.Now().Add(24*time.Hour)) {
		return 0, ErrDateOutOfRange
	}
	return t.Unix(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
