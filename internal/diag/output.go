package diag

import "regexp"

// Diagnostic line grammars on the compiler's combined stdout+stderr.
// Anchored at line start: diagnostics are whole lines, never suffixes.
var (
	outputPositioned   = regexp.MustCompile(`^Error in line (\d+):(\d+): ?(.*)$`)
	outputUnpositioned = regexp.MustCompile(`^Error: (.*)$`)
)

// ParseOutput classifies every line of the captured compiler output as
// either a recognized diagnostic or residual text. Classification is
// total: nothing is dropped, and residual lines keep their original
// order. Residual text only ever feeds failure reports; matching works on
// the diagnostics alone.
//
// A positioned line whose coordinates overflow uint32 is not something
// the compiler under test can legitimately print; it lands in residual so
// the report still shows it verbatim.
func ParseOutput(raw string) (diags []Diagnostic, residual []string) {
	for _, line := range SplitLines(raw) {
		if m := outputPositioned.FindStringSubmatch(line); m != nil {
			d, err := positionedFromMatch(m[3], m[1], m[2])
			if err != nil {
				residual = append(residual, line)
				continue
			}
			diags = append(diags, d)
			continue
		}
		if m := outputUnpositioned.FindStringSubmatch(line); m != nil {
			diags = append(diags, New(m[1]))
			continue
		}
		residual = append(residual, line)
	}
	return diags, residual
}
