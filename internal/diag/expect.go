package diag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// SkipMarker skips the whole fixture when it appears alone on a line.
const SkipMarker = "//! SKIP"

// Expectation markers embedded in fixture text. The marker may sit after
// code on the same line, so the patterns are unanchored. Positioned is
// always tried first; the grammars never overlap on well-formed markers,
// but the precedence keeps the classification unambiguous.
var (
	expectPositioned   = regexp.MustCompile(`//! ERROR\((\d+):(\d+)\): ?(.*)`)
	expectUnpositioned = regexp.MustCompile(`//! ERROR: (.*)`)
)

// ParseExpectations extracts the expected diagnostics from fixture text.
// Lines without a marker are ignored, so plain code and zero-marker
// fixtures parse fine (an empty result means "expect zero diagnostics").
// The only failure mode is a marker position that does not fit in uint32,
// which is a fixture authoring bug worth failing loudly on.
func ParseExpectations(text string) ([]Diagnostic, error) {
	var out []Diagnostic
	for _, line := range SplitLines(text) {
		if m := expectPositioned.FindStringSubmatch(line); m != nil {
			d, err := positionedFromMatch(m[3], m[1], m[2])
			if err != nil {
				return nil, fmt.Errorf("expectation marker %q: %w", line, err)
			}
			out = append(out, d)
			continue
		}
		if m := expectUnpositioned.FindStringSubmatch(line); m != nil {
			out = append(out, New(m[1]))
		}
	}
	return out, nil
}

// HasSkipMarker reports whether some line of the fixture consists of
// exactly the skip marker. The check is cheap and touches nothing but the
// text, so skipped fixtures never reach the compiler.
func HasSkipMarker(text string) bool {
	for _, line := range SplitLines(text) {
		if strings.TrimSpace(line) == SkipMarker {
			return true
		}
	}
	return false
}

// positionedFromMatch builds a positioned diagnostic from the captured
// digit groups. The captures are guaranteed to be decimal digits; only
// overflow can fail.
func positionedFromMatch(msg, lineStr, colStr string) (Diagnostic, error) {
	line, err := parsePos(lineStr)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("line: %w", err)
	}
	col, err := parsePos(colStr)
	if err != nil {
		return Diagnostic{}, fmt.Errorf("column: %w", err)
	}
	return NewAt(msg, line, col), nil
}

func parsePos(digits string) (uint32, error) {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](n)
}
