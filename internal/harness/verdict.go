package harness

import (
	"gauntlet/internal/corpus"
	"gauntlet/internal/diag"
)

// Status is the terminal outcome of one fixture.
type Status string

const (
	// StatusPassed means the fixture behaved exactly as annotated.
	StatusPassed Status = "passed"
	// StatusFailed means it did not; the Verdict carries the evidence.
	StatusFailed Status = "failed"
	// StatusSkipped means the fixture opted out and the compiler was
	// never invoked for it.
	StatusSkipped Status = "skipped"
)

// Verdict is the immutable outcome of evaluating one fixture. Which
// fields are populated depends on how the fixture failed; a passed or
// skipped verdict carries nothing but the status.
type Verdict struct {
	Status Status

	// Reason is a short failure tag shown right after the fixture path
	// in the report: "compiling succeeded", "compiler panicked",
	// "compiling failed", "time limit exceeded". Set-difference and
	// run-pass failures carry no tag.
	Reason string

	// Unexpected holds diagnostics the compiler emitted but the fixture
	// did not announce. For run-pass fixtures every diagnostic lands
	// here. Missing holds announced diagnostics that never appeared.
	Unexpected diag.Set
	Missing    diag.Set

	// RawTail is compiler output for the report: the residual lines
	// after diagnostic extraction, or the whole raw stream when the
	// failure preempted parsing.
	RawTail string

	// Golden comparison evidence, emit suites only.
	GoldenDescr string
	GoldenWant  string
	GoldenGot   string
}

// Outcome pairs a fixture with its verdict, in evaluation order.
type Outcome struct {
	Fixture corpus.Fixture
	Verdict Verdict
}
