package main

import (
	"bytes"
	"testing"

	"gauntlet/internal/harness"
)

func TestConsoleSinkSplitMode(t *testing.T) {
	var buf bytes.Buffer
	sink := newConsoleSink(&buf, false, false)

	sink.OnEvent(harness.Event{Kind: harness.EventSuiteStart, Suite: "compile-fail", Title: "compile-fail tests"})
	sink.OnEvent(harness.Event{Kind: harness.EventFixtureStart, Fixture: "scope/undefined.src"})
	sink.OnEvent(harness.Event{Kind: harness.EventFixtureDone, Fixture: "scope/undefined.src", Status: harness.StatusPassed})
	sink.OnEvent(harness.Event{Kind: harness.EventFixtureStart, Fixture: "scope/shadow.src"})
	sink.OnEvent(harness.Event{Kind: harness.EventFixtureDone, Fixture: "scope/shadow.src", Status: harness.StatusFailed})

	want := "Running compile-fail tests...\n" +
		"Testing scope/undefined.src ... ok\n" +
		"Testing scope/shadow.src ... failed\n"
	if buf.String() != want {
		t.Fatalf("split mode output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestConsoleSinkWholeLineMode(t *testing.T) {
	var buf bytes.Buffer
	sink := newConsoleSink(&buf, false, true)

	// В параллельном режиме start-события не печатаются вовсе.
	sink.OnEvent(harness.Event{Kind: harness.EventFixtureStart, Fixture: "a.src"})
	sink.OnEvent(harness.Event{Kind: harness.EventFixtureDone, Fixture: "b.src", Status: harness.StatusSkipped})

	want := "Testing b.src ... skipped\n"
	if buf.String() != want {
		t.Fatalf("whole-line output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestConsoleSinkColor(t *testing.T) {
	var buf bytes.Buffer
	sink := newConsoleSink(&buf, true, false)
	sink.OnEvent(harness.Event{Kind: harness.EventFixtureDone, Fixture: "a.src", Status: harness.StatusPassed})
	if !bytes.Contains(buf.Bytes(), []byte("\x1b[32m")) {
		t.Fatalf("expected green escape in %q", buf.String())
	}
}
