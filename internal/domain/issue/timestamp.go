package issue

import (
	"strings"
	"time"
)

// TimestampLayout is the wire and SQLite text form of created_on/updated_on.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Normalize truncates t to the millisecond precision document stores keep and
// moves it to UTC, so a value survives a store round trip unchanged.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func FormatTimestamp(t time.Time) string {
	return Normalize(t).Format(TimestampLayout)
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds.
func ParseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}
