// Package parser turns raw application log lines into structured records.
//
// The accepted line format is
//
//	YYYY-MM-DD HH:MM:SS,ffffff - LEVEL - message
//
// Only the first two " - " separators are significant; the message keeps any
// further occurrences.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/narvanalabs/logsight/internal/models"
)

const (
	// Separator splits the timestamp, level and message segments.
	Separator = " - "

	// TimestampLayout is the layout of the timestamp without its fraction.
	TimestampLayout = "2006-01-02 15:04:05"

	// parseLayout also accepts unpadded fields such as "2024-1-1 9:05:3",
	// as strptime does.
	parseLayout = "2006-1-2 15:4:5"

	// maxFractionDigits matches strptime's %f, which accepts 1 to 6 digits.
	maxFractionDigits = 6

	loopbackIP     = "127.0.0.1"
	endpointMarker = "endpoint hit"
)

// ParseError reports a line that cannot be turned into a record.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s in line: %q", e.Reason, e.Line)
}

// Parse converts one raw line into a ParsedLine. Failures are always
// *ParseError so bulk callers can skip and continue.
func Parse(line string) (*models.ParsedLine, error) {
	parts := strings.SplitN(line, Separator, 3)
	if len(parts) < 3 {
		return nil, &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("expected 3 segments separated by %q, got %d", Separator, len(parts)),
		}
	}

	ts, err := ParseTimestamp(parts[0])
	if err != nil {
		return nil, &ParseError{Line: line, Reason: err.Error()}
	}

	message := parts[2]
	parsed := &models.ParsedLine{
		Timestamp: ts,
		Level:     parts[1],
		Message:   message,
		Details:   extractDetails(message),
	}

	if strings.Contains(message, loopbackIP) {
		ip := loopbackIP
		parsed.SourceIP = &ip
	}
	if endpoint, ok := extractEndpoint(message); ok {
		parsed.Endpoint = &endpoint
	}

	return parsed, nil
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM:SS,ffffff" as UTC. Month, day,
// hour, minute and second may omit their leading zero.
func ParseTimestamp(s string) (time.Time, error) {
	comma := strings.LastIndexByte(s, ',')
	if comma < 0 {
		return time.Time{}, fmt.Errorf("timestamp %q has no fractional seconds", s)
	}

	base, frac := s[:comma], s[comma+1:]
	if len(frac) == 0 || len(frac) > maxFractionDigits {
		return time.Time{}, fmt.Errorf("timestamp %q: fraction must have 1 to %d digits", s, maxFractionDigits)
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("timestamp %q: fraction is not numeric", s)
		}
	}

	t, err := time.ParseInLocation(parseLayout, base, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}

	// Right-pad to microseconds: ",5" means 500000us, same as strptime.
	micros, _ := strconv.Atoi(frac + strings.Repeat("0", maxFractionDigits-len(frac)))
	return t.Add(time.Duration(micros) * time.Microsecond), nil
}

// FormatTimestamp renders t in the format ParseTimestamp accepts, in UTC.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s,%06d", t.Format(TimestampLayout), t.Nanosecond()/int(time.Microsecond))
}

// extractDetails reads a trailing " - k=v, k=v" block from the message.
// Any malformed token yields an empty mapping; it never fails the line.
func extractDetails(message string) models.Details {
	details := models.Details{}

	idx := strings.LastIndex(message, Separator)
	if idx < 0 {
		return details
	}

	tail := message[idx+len(Separator):]
	for _, token := range strings.Split(tail, ", ") {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" || strings.Contains(value, "=") {
			return models.Details{}
		}
		details[key] = value
	}

	return details
}

// extractEndpoint returns the token after "endpoint hit". When no word
// follows the phrase it falls back to the second space-delimited token.
func extractEndpoint(message string) (string, bool) {
	idx := strings.Index(message, endpointMarker)
	if idx < 0 {
		return "", false
	}

	if rest := message[idx+len(endpointMarker):]; strings.HasPrefix(rest, " ") {
		if fields := strings.Fields(rest); len(fields) > 0 {
			return fields[0], true
		}
	}

	tokens := strings.Split(message, " ")
	if len(tokens) < 2 {
		return "", false
	}
	return tokens[1], true
}
