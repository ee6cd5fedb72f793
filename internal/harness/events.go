package harness

import "time"

// EventKind discriminates progress events.
type EventKind string

const (
	// EventSuiteStart opens a suite; Title carries its human name.
	EventSuiteStart EventKind = "suite-start"
	// EventFixtureStart announces that a fixture is being evaluated.
	EventFixtureStart EventKind = "fixture-start"
	// EventFixtureDone carries the verdict for one fixture.
	EventFixtureDone EventKind = "fixture-done"
)

// Event reports run progress to whatever front-end is attached: the
// plain console printer or the TUI.
type Event struct {
	Kind    EventKind
	Suite   string
	Title   string // suite-start only
	Fixture string // fixture display name
	Index   int    // 1-based position within the whole run
	Total   int    // total fixtures in the run, 0 when unknown
	Status  Status // fixture-done only
	Reason  string
	Elapsed time.Duration
}

// Sink consumes progress events. Implementations must tolerate calls
// from multiple goroutines when the runner is parallel.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
