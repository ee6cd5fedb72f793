package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"gauntlet/internal/harness"
)

// consoleSink renders run progress as plain lines. Split mode prints
// the fixture name before evaluation and the status word after it
// finishes; whole-line mode prints both on completion and is what
// parallel runs use, where events interleave.
type consoleSink struct {
	mu        sync.Mutex
	out       io.Writer
	pal       consolePalette
	wholeLine bool
}

func newConsoleSink(out io.Writer, useColor, wholeLine bool) *consoleSink {
	return &consoleSink{out: out, pal: newConsolePalette(useColor), wholeLine: wholeLine}
}

func (s *consoleSink) OnEvent(evt harness.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch evt.Kind {
	case harness.EventSuiteStart:
		fmt.Fprintln(s.out, s.pal.blue.Sprintf("Running %s...", evt.Title))
	case harness.EventFixtureStart:
		if !s.wholeLine {
			fmt.Fprintf(s.out, "Testing %s ... ", evt.Fixture)
		}
	case harness.EventFixtureDone:
		if s.wholeLine {
			fmt.Fprintf(s.out, "Testing %s ... %s\n", evt.Fixture, s.statusWord(evt.Status))
		} else {
			fmt.Fprintln(s.out, s.statusWord(evt.Status))
		}
	}
}

func (s *consoleSink) statusWord(status harness.Status) string {
	switch status {
	case harness.StatusPassed:
		return s.pal.green.Sprint("ok")
	case harness.StatusFailed:
		return s.pal.red.Sprint("failed")
	case harness.StatusSkipped:
		return s.pal.yellow.Sprint("skipped")
	default:
		return string(status)
	}
}

type consolePalette struct {
	red    *color.Color
	green  *color.Color
	yellow *color.Color
	blue   *color.Color
}

func newConsolePalette(enabled bool) consolePalette {
	pal := consolePalette{
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		blue:   color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{pal.red, pal.green, pal.yellow, pal.blue} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return pal
}
