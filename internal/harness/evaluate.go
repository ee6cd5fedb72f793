package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gauntlet/internal/corpus"
	"gauntlet/internal/diag"
	"gauntlet/internal/invoke"
)

// Driver runs the compiler under test on one file. *invoke.Compiler is
// the real thing; tests substitute recorders and canned outputs.
type Driver interface {
	Run(ctx context.Context, file string, extra ...string) (invoke.Result, error)
}

// Evaluator turns one fixture into one Verdict. It owns no I/O beyond
// reading fixture and golden files and delegating to the Driver; errors
// it returns are harness failures (broken corpus, unlaunchable binary),
// never compiler misbehavior. Compiler misbehavior is a Verdict.
type Evaluator struct {
	Driver Driver

	// CrashExitCode is the exit code the compiler's runtime uses for an
	// internal crash, as opposed to an orderly rejection. Comes from the
	// manifest; matching it turns a compile-fail evaluation into an
	// immediate failure.
	CrashExitCode int

	// Bless rewrites golden files from the current compiler output
	// instead of failing emit fixtures on a mismatch.
	Bless bool
}

// Evaluate applies the suite's rules to one fixture.
//
// Порядок фиксирован: сначала маркер пропуска (компилятор не должен
// запускаться вовсе), затем разбор ожиданий, затем запуск.
func (e *Evaluator) Evaluate(ctx context.Context, suite corpus.Suite, fx corpus.Fixture) (Verdict, error) {
	text, err := corpus.ReadText(fx.Path)
	if err != nil {
		return Verdict{}, fmt.Errorf("fixture %s: %w", fx.Name, err)
	}
	if diag.HasSkipMarker(text) {
		return Verdict{Status: StatusSkipped}, nil
	}

	switch suite.Kind {
	case corpus.KindCompileFail:
		return e.compileFail(ctx, fx, text)
	case corpus.KindRunPass:
		return e.runPass(ctx, fx)
	case corpus.KindEmit:
		return e.emit(ctx, suite, fx)
	default:
		return Verdict{}, fmt.Errorf("suite %q: kind %q has no fixture evaluation", suite.Name, suite.Kind)
	}
}

// compileFail expects the compiler to reject the fixture with exactly
// the annotated diagnostics. Success is exact set equality, so an extra
// diagnostic fails the fixture even when every expected one matched.
func (e *Evaluator) compileFail(ctx context.Context, fx corpus.Fixture, text string) (Verdict, error) {
	expected, err := diag.ParseExpectations(text)
	if err != nil {
		// Сломанный маркер это ошибка автора фикстуры, а не компилятора.
		return Verdict{}, fmt.Errorf("fixture %s: %w", fx.Name, err)
	}

	res, err := e.Driver.Run(ctx, fx.Path)
	if verdict, ok, err := timeoutOrFatal(res, err); !ok {
		return verdict, err
	}

	switch res.ExitCode {
	case 0:
		return Verdict{Status: StatusFailed, Reason: "compiling succeeded", RawTail: res.Output}, nil
	case e.CrashExitCode:
		return Verdict{Status: StatusFailed, Reason: "compiler panicked", RawTail: res.Output}, nil
	}

	actual, residual := diag.ParseOutput(res.Output)
	actualSet := diag.NewSet(actual...)
	expectedSet := diag.NewSet(expected...)
	unexpected := actualSet.Diff(expectedSet)
	missing := expectedSet.Diff(actualSet)

	if unexpected.Empty() && missing.Empty() {
		return Verdict{Status: StatusPassed}, nil
	}
	return Verdict{
		Status:     StatusFailed,
		Unexpected: unexpected,
		Missing:    missing,
		RawTail:    strings.Join(residual, "\n"),
	}, nil
}

// runPass expects a clean accept: zero diagnostics and exit code 0.
// Every diagnostic that does appear is unexpected by definition.
func (e *Evaluator) runPass(ctx context.Context, fx corpus.Fixture) (Verdict, error) {
	res, err := e.Driver.Run(ctx, fx.Path)
	if verdict, ok, err := timeoutOrFatal(res, err); !ok {
		return verdict, err
	}

	actual, residual := diag.ParseOutput(res.Output)
	if len(actual) == 0 && res.ExitCode == 0 {
		return Verdict{Status: StatusPassed}, nil
	}
	return Verdict{
		Status:     StatusFailed,
		Unexpected: diag.NewSet(actual...),
		RawTail:    strings.Join(residual, "\n"),
	}, nil
}

// emit compiles with the suite's target flag and compares the output
// against the golden sibling, ignoring leading and trailing whitespace
// on both sides and nothing else.
func (e *Evaluator) emit(ctx context.Context, suite corpus.Suite, fx corpus.Fixture) (Verdict, error) {
	res, err := e.Driver.Run(ctx, fx.Path, "--target", suite.Target)
	if verdict, ok, err := timeoutOrFatal(res, err); !ok {
		return verdict, err
	}

	if res.ExitCode != 0 {
		return Verdict{Status: StatusFailed, Reason: "compiling failed", RawTail: res.Output}, nil
	}

	generated := strings.TrimSpace(res.Output)
	goldenPath := suite.GoldenFor(fx.Path)

	goldenText, err := corpus.ReadText(goldenPath)
	if err != nil {
		if e.Bless && errors.Is(err, fs.ErrNotExist) {
			if err := writeGolden(goldenPath, generated); err != nil {
				return Verdict{}, err
			}
			return Verdict{Status: StatusPassed, Reason: "blessed"}, nil
		}
		// Фикстура без эталона это дыра в корпусе, останавливаемся.
		return Verdict{}, fmt.Errorf("fixture %s: golden: %w", fx.Name, err)
	}

	expected := strings.TrimSpace(goldenText)
	if generated == expected {
		return Verdict{Status: StatusPassed}, nil
	}
	if e.Bless {
		if err := writeGolden(goldenPath, generated); err != nil {
			return Verdict{}, err
		}
		return Verdict{Status: StatusPassed, Reason: "blessed"}, nil
	}
	return Verdict{
		Status:      StatusFailed,
		GoldenDescr: suite.Descr(),
		GoldenWant:  expected,
		GoldenGot:   generated,
	}, nil
}

// timeoutOrFatal folds the shared post-Run branching: a timeout becomes
// a Failed verdict with the partial output attached, any other error
// aborts the harness. ok means evaluation should continue with res.
func timeoutOrFatal(res invoke.Result, err error) (Verdict, bool, error) {
	switch {
	case err == nil:
		return Verdict{}, true, nil
	case errors.Is(err, invoke.ErrTimeout):
		return Verdict{Status: StatusFailed, Reason: "time limit exceeded", RawTail: res.Output}, false, nil
	default:
		return Verdict{}, false, err
	}
}

// writeGolden rewrites a golden file in place, keeping the mode of an
// existing file.
func writeGolden(path, content string) error {
	mode := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content+"\n"), mode); err != nil {
		return fmt.Errorf("bless golden: %w", err)
	}
	return nil
}
