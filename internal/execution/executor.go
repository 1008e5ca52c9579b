package execution

import (
	"context"
	"errors"

	"pyheal/internal/domain"
)

// ErrRunnerNotStarted means the test runner process could not be launched at all
var ErrRunnerNotStarted = errors.New("start test runner")

// Executor runs a generated test file and reports how it went
type Executor interface {
	Run(ctx context.Context, testPath string) domain.TestResult
}
