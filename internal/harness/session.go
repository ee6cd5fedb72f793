package harness

import "gauntlet/internal/corpus"

// Session accumulates verdicts across every suite of one run. It is not
// goroutine-safe: the runner records results in discovery order even
// when evaluation itself is parallel.
type Session struct {
	passed  int
	failed  int
	skipped int

	records []Outcome
}

// Record folds one verdict into the tallies and the run history.
func (s *Session) Record(fx corpus.Fixture, v Verdict) {
	switch v.Status {
	case StatusPassed:
		s.passed++
	case StatusSkipped:
		s.skipped++
	case StatusFailed:
		s.failed++
	}
	s.records = append(s.records, Outcome{Fixture: fx, Verdict: v})
}

// Counts returns the pass/fail/skip tallies.
func (s *Session) Counts() (passed, failed, skipped int) {
	return s.passed, s.failed, s.skipped
}

// Outcomes returns every recorded verdict in evaluation order. The
// slice is shared; callers must not mutate it.
func (s *Session) Outcomes() []Outcome {
	return s.records
}

// Failures returns the failed outcomes in evaluation order.
func (s *Session) Failures() []Outcome {
	var out []Outcome
	for _, o := range s.records {
		if o.Verdict.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// OK reports whether the whole run succeeded. Skips do not count
// against success.
func (s *Session) OK() bool {
	return s.failed == 0
}
