// Package dates turns the heterogeneous timestamp values found in an export
// into time.Time.
//
// Exports store most timestamps as Unix epoch seconds (JSON numbers with a
// fractional part), but hand-edited or older files carry ISO-8601 strings.
// Parse accepts both. Values without a zone are interpreted as UTC.
package dates

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/stepsync/internal/domain"
)

// Layouts lists the accepted string layouts in the order they are tried.
var Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse converts value to a UTC-normalised time.
// Returns domain.ErrParse for nil, empty, unsupported or unrecognised input.
func Parse(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("dates.Parse: %w: no value", domain.ErrParse)
	case json.Number:
		return parseEpochString(v.String())
	case float64:
		return fromEpoch(v)
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case string:
		return parseString(v)
	default:
		return time.Time{}, fmt.Errorf("dates.Parse: %w: unsupported type %T", domain.ErrParse, value)
	}
}

// ParseOptional is Parse for optional fields: nil and "" yield a nil time.
func ParseOptional(value any) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := Parse(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// HasClock reports whether t carries a time-of-day component.
func HasClock(t time.Time) bool {
	h, m, s := t.Clock()
	return h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("dates.Parse: %w: empty string", domain.ErrParse)
	}
	for _, layout := range Layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := parseEpochString(s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("dates.Parse: %w: unrecognised date %q", domain.ErrParse, s)
}

func parseEpochString(s string) (time.Time, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(i, 0).UTC(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates.Parse: %w: invalid epoch %q", domain.ErrParse, s)
	}
	return fromEpoch(f)
}

func fromEpoch(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("dates.Parse: %w: invalid epoch %v", domain.ErrParse, f)
	}
	sec, frac := math.Modf(f)
	// Microsecond rounding: epoch floats cannot hold nanoseconds exactly.
	nsec := int64(math.Round(frac*1e6)) * 1e3
	return time.Unix(int64(sec), nsec).UTC(), nil
}
