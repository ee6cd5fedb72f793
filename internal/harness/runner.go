package harness

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gauntlet/internal/corpus"
	"gauntlet/internal/invoke"
	"gauntlet/internal/observ"
)

// Runner drives a whole run: suites in manifest order, fixtures in
// discovery order. Any error it returns is harness-fatal; no report
// should be printed after one.
type Runner struct {
	Tree      corpus.Tree
	Suites    []corpus.Suite
	Evaluator *Evaluator

	// GateDir and GateEnv apply to exec-suite commands, which run from
	// the project directory rather than the corpus root.
	GateDir string
	GateEnv []string

	// Jobs caps concurrent compiler invocations within a suite. Zero or
	// one means strictly sequential evaluation.
	Jobs int

	Sink  Sink
	Timer *observ.Timer
}

type discoveredSuite struct {
	suite    corpus.Suite
	fixtures []corpus.Fixture
	offset   int // global index of the first fixture, 0-based
}

// Run evaluates every suite and records verdicts into session. Verdicts
// always land in discovery order, whatever Jobs is.
func (r *Runner) Run(ctx context.Context, session *Session) error {
	// Обходим корпус заранее: сломанное дерево должно остановить
	// прогон до первого запуска компилятора.
	idx := r.Timer.Begin("discover")
	plan := make([]discoveredSuite, 0, len(r.Suites))
	total := 0
	for _, suite := range r.Suites {
		fixtures, err := r.Tree.Discover(suite)
		if err != nil {
			return err
		}
		plan = append(plan, discoveredSuite{suite: suite, fixtures: fixtures, offset: total})
		total += len(fixtures)
	}
	r.Timer.End(idx, fmt.Sprintf("%d fixtures", total))

	for _, ds := range plan {
		r.emit(Event{Kind: EventSuiteStart, Suite: ds.suite.Name, Title: ds.suite.Title})

		idx := r.Timer.Begin("suite " + ds.suite.Name)
		var err error
		if ds.suite.Kind == corpus.KindExec {
			err = r.runGate(ctx, ds.suite)
		} else if r.Jobs > 1 && len(ds.fixtures) > 1 {
			err = r.runParallel(ctx, ds, total, session)
		} else {
			err = r.runSequential(ctx, ds, total, session)
		}
		if err != nil {
			return err
		}
		r.Timer.End(idx, fmt.Sprintf("%d fixtures", len(ds.fixtures)))
	}
	return nil
}

// runGate executes the suite's external command with live output. A
// non-zero exit aborts the whole run: the gate guards everything after
// it.
func (r *Runner) runGate(ctx context.Context, suite corpus.Suite) error {
	if err := invoke.RunStream(ctx, r.GateDir, suite.Command, r.GateEnv...); err != nil {
		return fmt.Errorf("%s failed: %w", suite.Title, err)
	}
	return nil
}

func (r *Runner) runSequential(ctx context.Context, ds discoveredSuite, total int, session *Session) error {
	for i, fx := range ds.fixtures {
		r.emit(Event{
			Kind:    EventFixtureStart,
			Suite:   ds.suite.Name,
			Fixture: fx.Name,
			Index:   ds.offset + i + 1,
			Total:   total,
		})

		start := time.Now()
		verdict, err := r.Evaluator.Evaluate(ctx, ds.suite, fx)
		if err != nil {
			return err
		}
		session.Record(fx, verdict)

		r.emit(Event{
			Kind:    EventFixtureDone,
			Suite:   ds.suite.Name,
			Fixture: fx.Name,
			Index:   ds.offset + i + 1,
			Total:   total,
			Status:  verdict.Status,
			Reason:  verdict.Reason,
			Elapsed: time.Since(start),
		})
	}
	return nil
}

// runParallel evaluates one suite's fixtures with a bounded worker
// group. Events fire as fixtures finish; recording into the session
// happens afterwards, in discovery order, off the index-addressed
// results slice.
func (r *Runner) runParallel(ctx context.Context, ds discoveredSuite, total int, session *Session) error {
	verdicts := make([]Verdict, len(ds.fixtures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.Jobs, len(ds.fixtures)))

	for i, fx := range ds.fixtures {
		g.Go(func(i int, fx corpus.Fixture) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				r.emit(Event{
					Kind:    EventFixtureStart,
					Suite:   ds.suite.Name,
					Fixture: fx.Name,
					Index:   ds.offset + i + 1,
					Total:   total,
				})

				start := time.Now()
				verdict, err := r.Evaluator.Evaluate(gctx, ds.suite, fx)
				if err != nil {
					return err
				}
				// Индекс уникален для горутины, мьютекс не нужен.
				verdicts[i] = verdict

				r.emit(Event{
					Kind:    EventFixtureDone,
					Suite:   ds.suite.Name,
					Fixture: fx.Name,
					Index:   ds.offset + i + 1,
					Total:   total,
					Status:  verdict.Status,
					Reason:  verdict.Reason,
					Elapsed: time.Since(start),
				})
				return nil
			}
		}(i, fx))
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, fx := range ds.fixtures {
		session.Record(fx, verdicts[i])
	}
	return nil
}

func (r *Runner) emit(evt Event) {
	if r.Sink != nil {
		r.Sink.OnEvent(evt)
	}
}
