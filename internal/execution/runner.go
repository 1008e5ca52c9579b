package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"pyheal/internal/config"
	"pyheal/internal/domain"
)

var _ Executor = (*Runner)(nil)

// Runner executes the Python test runner against a single test file
type Runner struct {
	config *config.Config
	logger zerolog.Logger
	echo   io.Writer
}

// NewRunner creates a new Runner that echoes test output to stdout
func NewRunner(cfg *config.Config, logger zerolog.Logger) *Runner {
	return &Runner{config: cfg, logger: logger, echo: os.Stdout}
}

// SetOutput sets where runner output is echoed while it is captured; nil disables echoing
func (r *Runner) SetOutput(w io.Writer) {
	r.echo = w
}

// Run executes `<python> -m <runner> <file>` in the test file's directory.
// Output is captured verbatim; the exit code is -1 when the runner could not be started or was killed.
func (r *Runner) Run(ctx context.Context, testPath string) domain.TestResult {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	dir, file := filepath.Split(testPath)
	if dir == "" {
		dir = "."
	}
	cmd := exec.CommandContext(ctx, r.config.PythonPath, r.config.RunnerArgs(file)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "PYTHONDONTWRITEBYTECODE=1")

	var buf bytes.Buffer
	var w io.Writer = &buf
	if r.echo != nil {
		w = io.MultiWriter(&buf, r.echo)
	}
	// One writer for both streams keeps stdout and stderr interleaved as the runner wrote them
	cmd.Stdout = w
	cmd.Stderr = w

	r.logger.Debug().Str("python", r.config.PythonPath).Strs("args", cmd.Args[1:]).Str("dir", dir).Msg("running tests")
	start := time.Now()
	err := cmd.Run()
	result := domain.TestResult{
		TestPath: testPath,
		Output:   buf.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case ctx.Err() == context.DeadlineExceeded:
		result.ExitCode = -1
		result.Error = fmt.Errorf("test run timed out after %s", r.config.Timeout)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		result.Error = fmt.Errorf("%w: %w", ErrRunnerNotStarted, err)
	}

	r.logger.Debug().Int("exit_code", result.ExitCode).Dur("duration", result.Duration).Msg("test run finished")
	return result
}
