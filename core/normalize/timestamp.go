package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FixedTimestampLayout is TM's YYYYMMDDHHMMSS layout.
const FixedTimestampLayout = "20060102150405"

// EmptyTimestamp is TM's sentinel for an unset timestamp.
const EmptyTimestamp = "0"

var fixedTimestampPattern = regexp.MustCompile(`^\d{14}$`)

// ParseError reports a value that does not follow TM's fixed formats.
type ParseError struct {
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Value, e.Reason)
}

// ParseFixedTimestampStrict parses a YYYYMMDDHHMMSS value as a UTC instant.
func ParseFixedTimestampStrict(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == EmptyTimestamp {
		return time.Time{}, &ParseError{Value: raw, Reason: "timestamp is empty"}
	}
	if !fixedTimestampPattern.MatchString(s) {
		return time.Time{}, &ParseError{Value: raw, Reason: "must be YYYYMMDDHHMMSS"}
	}

	t, err := time.ParseInLocation(FixedTimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Value: raw, Reason: "not a calendar date"}
	}
	return t, nil
}

// ParseFixedTimestamp is the lenient variant: any failure yields nil.
// Blank values and the "0" sentinel are logged at debug, malformed values at warn.
func ParseFixedTimestamp(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || s == EmptyTimestamp {
		zap.L().Debug("TM timestamp absent", zap.String("raw", raw))
		return nil
	}

	t, err := ParseFixedTimestampStrict(s)
	if err != nil {
		zap.L().Warn("Ignoring malformed TM timestamp", zap.String("raw", raw), zap.Error(err))
		return nil
	}
	return &t
}

// FormatFixedTimestamp formats t in UTC using TM's fixed layout.
func FormatFixedTimestamp(t time.Time) string {
	return t.UTC().Format(FixedTimestampLayout)
}
