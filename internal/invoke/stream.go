package invoke

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// RunStream runs argv with inherited stdout/stderr, for the build command
// and gate suites whose output the user should see live rather than in a
// report. cwd is the directory to run in; env entries are appended to the
// inherited environment.
func RunStream(ctx context.Context, cwd string, argv []string, env ...string) error {
	if len(argv) == 0 {
		return errors.New("invoke: empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d", argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}
