// Package healer runs the generate, test, heal, retest pipeline for one source file.
package healer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pyheal/internal/config"
	"pyheal/internal/domain"
	"pyheal/internal/execution"
	"pyheal/internal/factory"
	"pyheal/internal/parser"
	"pyheal/internal/storage"
)

// Fixer patches failing source code given the test output
type Fixer interface {
	Heal(ctx context.Context, source, errorText string) (string, error)
}

// Observer is told about each pipeline step as it happens
type Observer interface {
	Generating(sourcePath string)
	Generated(testPath string)
	Healthy()
	Healing()
	Healed(sourcePath string)
}

// Orchestrator wires the test factory, the fixer and the session history together
type Orchestrator struct {
	config   *config.Config
	factory  *factory.TestFactory
	fixer    Fixer
	parser   parser.Parser
	storage  storage.Storage
	observer Observer
	logger   zerolog.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	cfg *config.Config,
	testFactory *factory.TestFactory,
	fixer Fixer,
	p parser.Parser,
	st storage.Storage,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		config:  cfg,
		factory: testFactory,
		fixer:   fixer,
		parser:  p,
		storage: st,
		logger:  logger,
	}
}

// SetObserver sets the observer notified of pipeline progress
func (o *Orchestrator) SetObserver(observer Observer) {
	o.observer = observer
}

// Invoke generates tests for the source at path and runs them. If they fail, the source is
// healed once, overwritten in place and the tests are run a second time. The second result is
// recorded but does not change the outcome.
func (o *Orchestrator) Invoke(ctx context.Context, path string) (*domain.Session, error) {
	session := &domain.Session{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().Format(time.RFC3339),
		SourcePath: path,
		Provider:   o.config.Provider,
		Model:      o.config.Model,
	}
	logger := o.logger.With().Str("session", session.ID).Str("source", path).Logger()

	err := o.invoke(ctx, logger, session, path)
	if err != nil {
		session.Error = err.Error()
	}
	if o.storage != nil {
		if serr := o.storage.Append(*session); serr != nil {
			logger.Warn().Err(serr).Msg("could not record session")
		}
	}
	return session, err
}

func (o *Orchestrator) invoke(ctx context.Context, logger zerolog.Logger, session *domain.Session, path string) error {
	if o.observer != nil {
		o.observer.Generating(path)
	}
	testPath, err := o.factory.CreateTestFile(ctx, path)
	if err != nil {
		return err
	}
	session.TestPath = testPath
	if o.observer != nil {
		o.observer.Generated(testPath)
	}

	first := o.factory.RunTests(ctx, testPath)
	session.FirstRun = o.record(first)
	logger.Debug().Int("exit_code", first.ExitCode).Msg("first run finished")
	// Only a run that actually started can be healed
	if errors.Is(first.Error, execution.ErrRunnerNotStarted) {
		return fmt.Errorf("run tests: %w", first.Error)
	}
	if first.Success() {
		if o.observer != nil {
			o.observer.Healthy()
		}
		return nil
	}

	if o.observer != nil {
		o.observer.Healing()
	}
	source, err := factory.ReadSource(path)
	if err != nil {
		return err
	}
	fixed, err := o.fixer.Heal(ctx, source.Content, first.Message())
	if err != nil {
		return err
	}

	if o.config.Backup {
		backupPath := path + ".bak"
		if err := writeFileLike(backupPath, path, []byte(source.Content)); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		session.BackupPath = backupPath
	}
	if err := writeFileLike(path, path, []byte(fixed)); err != nil {
		return fmt.Errorf("overwrite source: %w", err)
	}
	session.Healed = true
	logger.Debug().Int("bytes", len(fixed)).Msg("source overwritten with healed code")
	if o.observer != nil {
		o.observer.Healed(path)
	}

	second := o.factory.RunTests(ctx, testPath)
	session.SecondRun = o.record(second)
	logger.Debug().Int("exit_code", second.ExitCode).Msg("second run finished")
	return nil
}

func (o *Orchestrator) record(result domain.TestResult) *domain.RunRecord {
	rec := &domain.RunRecord{
		ExitCode:        result.ExitCode,
		Output:          result.Message(),
		DurationSeconds: result.Duration.Seconds(),
	}
	if o.parser != nil {
		rec.Passed, rec.Failed = o.parser.ParseTestCounts(result)
		if !result.Success() {
			rec.Failures = o.parser.ParseFailure(result)
		}
	}
	return rec
}

// writeFileLike writes data to dst using the permission bits of ref
func writeFileLike(dst, ref string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(ref); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(dst, data, perm)
}
