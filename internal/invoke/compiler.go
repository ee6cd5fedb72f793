// Package invoke запускает внешний компилятор и возвращает его
// объединённый вывод и код выхода. Никакой интерпретации вывода здесь
// нет: разбор и сверка диагностик живут уровнем выше.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ErrTimeout reports that a single invocation exceeded its time budget.
// The caller decides whether that fails one fixture or the whole run.
var ErrTimeout = errors.New("time limit exceeded")

// Result captures one finished invocation: the combined stdout+stderr
// stream in emission order, and the raw exit code.
type Result struct {
	Output   string
	ExitCode int
}

// Compiler runs one external binary over fixture files. The zero value is
// not usable; the manifest layer fills it in.
type Compiler struct {
	Binary   string
	BaseArgs []string
	Dir      string        // working directory of every invocation
	Env      []string      // extra KEY=VALUE entries on top of the inherited env
	Timeout  time.Duration // per invocation; zero means no limit
}

// Probe verifies the binary can be launched at all, so a stale manifest
// fails before the first fixture instead of on each of them.
func (c *Compiler) Probe() error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("compiler binary: %w", err)
	}
	return nil
}

// Run invokes the compiler on one file. Extra arguments go between the
// base arguments and the file path, which always comes last.
//
// A non-zero exit is not an error: the Result carries the code and the
// caller judges it. An error is returned only when the invocation itself
// broke down: the binary would not launch, the context was cancelled, or
// the time budget ran out (ErrTimeout, with any partial output kept).
func (c *Compiler) Run(ctx context.Context, file string, extra ...string) (Result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(c.BaseArgs)+len(extra)+1)
	args = append(args, c.BaseArgs...)
	args = append(args, extra...)
	args = append(args, file)

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Dir = c.Dir
	cmd.Env = c.environ()
	// Не ждать вечно дескрипторы внуков после kill по дедлайну.
	cmd.WaitDelay = time.Second

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return Result{Output: out.String()}, fmt.Errorf("%s: %w", file, ErrTimeout)
		}
		return Result{}, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Output: out.String(), ExitCode: exitErr.ExitCode()}, nil
		}
		return Result{}, fmt.Errorf("invoke %s: %w", c.Binary, err)
	}
	return Result{Output: out.String()}, nil
}

// environ builds the child environment: the parent's, then the configured
// extras, then the forced color switch. The compiler must print its
// diagnostics without ANSI codes or the output parser would see garbage,
// so the switch always wins.
func (c *Compiler) environ() []string {
	env := append(os.Environ(), c.Env...)
	return append(env, "COLORED_OUTPUT=off")
}
