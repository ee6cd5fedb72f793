package harness

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"gauntlet/internal/diag"
)

// ReportOpts controls report rendering. Color is decided by the caller
// (flag plus terminal detection); the renderer never sniffs the output.
type ReportOpts struct {
	Color bool
}

// Render produces the end-of-run report: a counts line, then one detail
// block per failure in evaluation order. The boolean mirrors OK() so
// callers can print and decide the exit status in one place.
func (s *Session) Render(opts ReportOpts) (string, bool) {
	pal := newPalette(opts.Color)
	var b strings.Builder

	b.WriteByte('\n')

	if s.failed > 0 {
		b.WriteString(pal.red.Sprintf("%s failed; ", pluralizeTests(s.failed)))
		if s.skipped > 0 {
			b.WriteString(pal.yellow.Sprintf("%s skipped; ", pluralizeTests(s.skipped)))
		}
		b.WriteString(pal.green.Sprintf("%s passed", pluralizeTests(s.passed)))
		b.WriteByte('\n')

		for _, f := range s.Failures() {
			b.WriteByte('\n')
			s.renderFailure(&b, pal, f)
		}
	} else {
		if s.skipped > 0 {
			b.WriteString(pal.yellow.Sprintf("%s skipped; ", pluralizeTests(s.skipped)))
		}
		b.WriteString(pal.green.Sprintf("%s passed", pluralizeTests(s.passed)))
		b.WriteByte('\n')
	}

	return b.String(), s.OK()
}

func (s *Session) renderFailure(b *strings.Builder, pal palette, f Outcome) {
	v := f.Verdict

	fmt.Fprintf(b, "--- Test %s: %s", f.Fixture.Path, v.Reason)
	if v.GoldenDescr != "" {
		// Блок сравнения идёт сразу после двоеточия, с новой строки.
		fmt.Fprintf(b, "\n   %s\n%s\n\n   %s\n%s",
			pal.cyan.Sprintf("Expected %s:", v.GoldenDescr),
			v.GoldenWant,
			pal.cyan.Sprintf("Generated %s:", v.GoldenDescr),
			v.GoldenGot,
		)
	}
	b.WriteByte('\n')

	if !v.Unexpected.Empty() {
		b.WriteString("Unexpected errors:\n")
		for _, d := range v.Unexpected.Sorted() {
			b.WriteString("   " + d.String() + "\n")
		}
	}
	if !v.Missing.Empty() {
		b.WriteString("Missing errors:\n")
		for _, d := range v.Missing.Sorted() {
			b.WriteString("   " + d.String() + "\n")
		}
	}
	if v.RawTail != "" {
		b.WriteString("Compiler output:\n")
		b.WriteString("   " + strings.Join(diag.SplitLines(v.RawTail), "\n   ") + "\n")
	}
}

func pluralizeTests(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d tests", n)
	}
	return fmt.Sprintf("%d test", n)
}

type palette struct {
	red    *color.Color
	yellow *color.Color
	green  *color.Color
	cyan   *color.Color
}

// newPalette builds colors with an explicit switch instead of the
// package's tty autodetection, so rendering stays deterministic.
func newPalette(enabled bool) palette {
	mk := func(attr color.Attribute) *color.Color {
		c := color.New(attr)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		red:    mk(color.FgRed),
		yellow: mk(color.FgYellow),
		green:  mk(color.FgGreen),
		cyan:   mk(color.FgCyan),
	}
}
