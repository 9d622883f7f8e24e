package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genTimestamp generates UTC timestamps with microsecond precision.
func genTimestamp() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(946684800, 4102444799), // 2000-01-01 .. 2099-12-31
		gen.Int64Range(0, 999999),
	).Map(func(vals []interface{}) time.Time {
		return time.Unix(vals[0].(int64), vals[1].(int64)*int64(time.Microsecond)).UTC()
	})
}

// genLevel generates one of the standard level codes.
func genLevel() gopter.Gen {
	return gen.OneConstOf("DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL")
}

// genMessage generates messages that may themselves contain separators.
func genMessage() gopter.Gen {
	return gen.SliceOf(gen.AlphaString()).Map(func(parts []string) string {
		return strings.Join(parts, Separator)
	})
}

// **Feature: log-ingestion, Property 1: Well-formed lines round-trip**
// For any well-formed "<ts> - <LEVEL> - <msg>" line, parsing returns the
// timestamp and level exactly and leaves the message as the remainder.
func TestPropertyWellFormedLineRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("timestamp, level and message survive parsing", prop.ForAll(
		func(ts time.Time, level, message string) bool {
			line := FormatTimestamp(ts) + Separator + level + Separator + message

			parsed, err := Parse(line)
			if err != nil {
				t.Logf("unexpected error for %q: %v", line, err)
				return false
			}
			if !parsed.Timestamp.Equal(ts) {
				t.Logf("timestamp mismatch: got %v, want %v", parsed.Timestamp, ts)
				return false
			}
			if parsed.Level != level {
				t.Logf("level mismatch: got %q, want %q", parsed.Level, level)
				return false
			}
			if parsed.Message != message {
				t.Logf("message mismatch: got %q, want %q", parsed.Message, message)
				return false
			}
			return parsed.Details != nil
		},
		genTimestamp(),
		genLevel(),
		genMessage(),
	))

	properties.TestingRun(t)
}

// **Feature: log-ingestion, Property 2: Too few separators fail**
// For any line with fewer than two " - " separators, parsing fails with a
// ParseError.
func TestPropertyTooFewSeparatorsFail(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("lines with fewer than three segments are rejected", prop.ForAll(
		func(a, b string, withOne bool) bool {
			line := a
			if withOne {
				line = a + Separator + b
			}

			parsed, err := Parse(line)
			if parsed != nil {
				return false
			}
			var perr *ParseError
			return errors.As(err, &perr) && perr.Line == line
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// **Feature: log-ingestion, Property 3: Well-formed detail blocks are extracted**
// For any message ending in " - k=v, k=v", the pairs become the details map
// and the message is left untouched.
func TestPropertyDetailsExtraction(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genPairs := gen.MapOf(gen.Identifier(), gen.AlphaString()).
		SuchThat(func(m map[string]string) bool { return len(m) > 0 })

	properties.Property("key=value tail is parsed into details", prop.ForAll(
		func(ts time.Time, head string, pairs map[string]string) bool {
			tokens := make([]string, 0, len(pairs))
			for k, v := range pairs {
				tokens = append(tokens, k+"="+v)
			}
			message := head + Separator + strings.Join(tokens, ", ")
			line := FormatTimestamp(ts) + Separator + "INFO" + Separator + message

			parsed, err := Parse(line)
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}
			if parsed.Message != message {
				return false
			}
			if len(parsed.Details) != len(pairs) {
				t.Logf("details size: got %d, want %d", len(parsed.Details), len(pairs))
				return false
			}
			for k, v := range pairs {
				if parsed.Details[k] != v {
					return false
				}
			}
			return true
		},
		genTimestamp(),
		gen.AlphaString(),
		genPairs,
	))

	properties.TestingRun(t)
}
