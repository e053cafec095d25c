package metadata

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("metadata: invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps user-friendly tokens to Go time format components, ordered
// longest first for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a user-friendly format string (YYYY, YY, MMMM,
// MMM, MM, M, DD, D) to Go's time layout. Bracketed text is copied literally,
// so "[Updated] DD MMM" keeps the word Updated intact. Other non-token
// characters pass through unchanged.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// ResolveDate handles "auto" and "auto:FORMAT" date values:
//   - "auto" → now in the default ISO format
//   - "auto:FORMAT" → now in a custom format
//   - "auto:preset" → now using a named preset (iso, european, us, long)
//   - anything else → returned unchanged
//
// The time parameter lets callers inject a fixed clock.
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultDateFormat
	if lower != "auto" {
		if !strings.HasPrefix(lower, "auto:") {
			return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		format = value[len("auto:"):]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}
