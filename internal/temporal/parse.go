package temporal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the grammar of start_date/end_date on period queries.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the grammar of start_date/end_date on range queries.
	DateTimeLayout = "2006-01-02T15:04:05"
)

// keyLayouts are tried in order when parsing a record key. Layouts without
// an offset are interpreted as UTC.
var keyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ErrFutureKey is returned by CheckKey for keys later than now.
var ErrFutureKey = errors.New("date_time cannot be in the future")

// Clock is a time of day with minute resolution.
type Clock struct {
	Hour   int
	Minute int
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight UTC.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: s, Layout: "YYYY-MM-DD"}
	}
	return t, nil
}

// ParseDateTime parses a full timestamp (YYYY-MM-DDTHH:MM:SS) as UTC.
func ParseDateTime(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: s, Layout: "YYYY-MM-DDTHH:MM:SS"}
	}
	return t, nil
}

// ParseClock parses HH:MM. A string that is not two integers separated by a
// colon is a ParseError; integers outside the valid ranges are an
// OutOfBoundsError.
func ParseClock(field, s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, &ParseError{Field: field, Value: s, Layout: "HH:MM"}
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, &ParseError{Field: field, Value: s, Layout: "HH:MM"}
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock{}, &ParseError{Field: field, Value: s, Layout: "HH:MM"}
	}
	if h < 0 || h >= 24 || m < 0 || m >= 60 {
		return Clock{}, &OutOfBoundsError{Field: field, Hour: h, Minute: m}
	}
	return Clock{Hour: h, Minute: m}, nil
}

// ParseKey parses an ISO 8601 record key and normalizes it to UTC.
func ParseKey(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range keyLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ParseError{Field: field, Value: s, Layout: "ISO 8601 date-time"}
}

// CheckKey rejects keys later than now.
func CheckKey(key, now time.Time) error {
	if key.After(now) {
		return ErrFutureKey
	}
	return nil
}
