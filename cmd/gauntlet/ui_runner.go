package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gauntlet/internal/corpus"
	"gauntlet/internal/harness"
	"gauntlet/internal/ui"
)

// runSuitesWithUI runs the suites in a goroutine and feeds its events
// to a Bubble Tea progress view. The run error wins over a UI error
// only when the UI shut down cleanly.
func runSuitesWithUI(ctx context.Context, runner *harness.Runner, session *harness.Session, suites []corpus.Suite) error {
	events := make(chan harness.Event, 256)
	outcomeCh := make(chan error, 1)

	runner.Sink = harness.ChannelSink{Ch: events}
	go func() {
		outcomeCh <- runner.Run(ctx, session)
		close(events)
	}()

	infos := make([]ui.SuiteInfo, 0, len(suites))
	for _, s := range suites {
		infos = append(infos, ui.SuiteInfo{Name: s.Name, Title: s.Title})
	}
	model := ui.NewRunModel("gauntlet run", infos, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	runErr := <-outcomeCh
	if uiErr != nil {
		return uiErr
	}
	return runErr
}
