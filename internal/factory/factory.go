// Package factory generates unit tests for a Python source file and runs them.
package factory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"pyheal/internal/config"
	"pyheal/internal/domain"
	"pyheal/internal/execution"
)

// ErrNotAFile is returned when the source path is a directory or other non-regular file
var ErrNotAFile = errors.New("not a regular file")

// TestGenerator produces test code for a Python module
type TestGenerator interface {
	GenerateTests(ctx context.Context, source, module string) (string, error)
}

// TestFactory writes generated tests beside their source and runs them
type TestFactory struct {
	config    *config.Config
	generator TestGenerator
	executor  execution.Executor
	logger    zerolog.Logger
}

// NewTestFactory creates a new TestFactory
func NewTestFactory(cfg *config.Config, generator TestGenerator, executor execution.Executor, logger zerolog.Logger) *TestFactory {
	return &TestFactory{
		config:    cfg,
		generator: generator,
		executor:  executor,
		logger:    logger,
	}
}

// ReadSource loads a Python source file
func ReadSource(path string) (domain.SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.SourceFile{}, fmt.Errorf("read source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return domain.SourceFile{}, fmt.Errorf("read source %s: %w", path, ErrNotAFile)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceFile{}, fmt.Errorf("read source: %w", err)
	}
	return domain.SourceFile{
		Path:    path,
		Module:  ModuleName(path),
		Content: string(content),
	}, nil
}

// ModuleName returns the import name of a Python file: its basename without extension
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CreateTestFile generates tests for the source at path, writes them to the sibling
// test path and returns that path. An existing test file is overwritten.
func (f *TestFactory) CreateTestFile(ctx context.Context, path string) (string, error) {
	source, err := ReadSource(path)
	if err != nil {
		return "", err
	}

	code, err := f.generator.GenerateTests(ctx, source.Content, source.Module)
	if err != nil {
		return "", err
	}

	outputPath := f.config.GetTestPath(path)
	if err := os.WriteFile(outputPath, []byte(code), 0644); err != nil {
		return "", fmt.Errorf("write test file: %w", err)
	}
	f.logger.Debug().Str("source", path).Str("test", outputPath).Int("bytes", len(code)).Msg("wrote generated tests")
	return outputPath, nil
}

// RunTests runs the test file at path and returns its exit code and output
func (f *TestFactory) RunTests(ctx context.Context, path string) domain.TestResult {
	return f.executor.Run(ctx, path)
}
