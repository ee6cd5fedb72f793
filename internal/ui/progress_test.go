package ui

import (
	"strings"
	"testing"

	"gauntlet/internal/harness"
)

func newTestModel() *runModel {
	suites := []SuiteInfo{
		{Name: "compile-fail", Title: "compile-fail tests"},
		{Name: "ir", Title: "IR tests"},
	}
	m := NewRunModel("conformance run", suites, nil)
	return m.(*runModel)
}

func TestApplyEventFoldsStatuses(t *testing.T) {
	m := newTestModel()

	m.applyEvent(harness.Event{Kind: harness.EventSuiteStart, Suite: "compile-fail"})
	if got := m.items[0].status; got != "running" {
		t.Fatalf("status after suite start = %q, want running", got)
	}

	m.applyEvent(harness.Event{Kind: harness.EventFixtureStart, Suite: "compile-fail", Fixture: "a/x.src"})
	if m.current != "a/x.src" {
		t.Fatalf("current = %q, want a/x.src", m.current)
	}

	m.applyEvent(harness.Event{Kind: harness.EventFixtureDone, Suite: "compile-fail", Status: harness.StatusPassed, Index: 1, Total: 3})
	m.applyEvent(harness.Event{Kind: harness.EventFixtureDone, Suite: "compile-fail", Status: harness.StatusFailed, Index: 2, Total: 3})
	if m.count != 2 || m.total != 3 {
		t.Fatalf("count/total = %d/%d, want 2/3", m.count, m.total)
	}
	if m.items[0].failed != 1 {
		t.Fatalf("failed tally = %d, want 1", m.items[0].failed)
	}

	// Следующий баннер закрывает предыдущий сьют.
	m.applyEvent(harness.Event{Kind: harness.EventSuiteStart, Suite: "ir"})
	if got := m.items[0].status; got != "failed" {
		t.Fatalf("settled status = %q, want failed", got)
	}
	if got := m.items[1].status; got != "running" {
		t.Fatalf("next suite status = %q, want running", got)
	}
}

func TestSettleRunningMarksCleanSuiteOK(t *testing.T) {
	m := newTestModel()
	m.applyEvent(harness.Event{Kind: harness.EventSuiteStart, Suite: "ir"})
	m.applyEvent(harness.Event{Kind: harness.EventFixtureDone, Suite: "ir", Status: harness.StatusPassed, Index: 1, Total: 1})
	m.settleRunning()
	if got := m.items[1].status; got != "ok" {
		t.Fatalf("settled status = %q, want ok", got)
	}
	if got := m.items[0].status; got != "queued" {
		t.Fatalf("untouched suite status = %q, want queued", got)
	}
}

func TestApplyEventIgnoresUnknownSuite(t *testing.T) {
	m := newTestModel()
	m.applyEvent(harness.Event{Kind: harness.EventFixtureDone, Suite: "ghost", Status: harness.StatusFailed, Index: 1, Total: 1})
	if m.count != 0 {
		t.Fatalf("count = %d, want 0", m.count)
	}
}

func TestViewListsSuites(t *testing.T) {
	m := newTestModel()
	view := m.View()
	if !strings.Contains(view, "compile-fail tests") || !strings.Contains(view, "IR tests") {
		t.Fatalf("view is missing suite lines:\n%s", view)
	}
	if !strings.Contains(view, "queued") {
		t.Fatalf("view is missing queued status:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{"short", 20, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a-much-longer-name", 10, "a-mu..."},
		{"abc", 2, "ab"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.value, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
		}
	}
}
