package domain

import "time"

// TestResult represents one execution of the test runner against a generated test file
type TestResult struct {
	TestPath string        // Path to the test file that was executed
	ExitCode int           // Runner exit code, -1 if it could not be started
	Output   string        // Combined stdout and stderr, verbatim
	Error    error         // Launch error, nil when the runner exited on its own
	Duration time.Duration // Time taken to execute
}

// Success reports whether the runner exited with status zero
func (r TestResult) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// Message returns the failure text handed to the heal prompt
func (r TestResult) Message() string {
	if r.Output == "" && r.Error != nil {
		return r.Error.Error()
	}
	return r.Output
}

// RunRecord is the persisted form of a TestResult
type RunRecord struct {
	ExitCode        int           `json:"exit_code"`
	Passed          int           `json:"passed"`
	Failed          int           `json:"failed"`
	Failures        []TestFailure `json:"failures,omitempty"`
	Output          string        `json:"output"`
	DurationSeconds float64       `json:"duration_seconds"`
}

// Session is one invoke run as stored in the history file
type Session struct {
	ID         string     `json:"id"`
	Timestamp  string     `json:"timestamp"`
	SourcePath string     `json:"source_path"`
	TestPath   string     `json:"test_path"`
	Provider   string     `json:"provider"`
	Model      string     `json:"model"`
	FirstRun   *RunRecord `json:"first_run,omitempty"`
	Healed     bool       `json:"healed"`
	BackupPath string     `json:"backup_path,omitempty"`
	SecondRun  *RunRecord `json:"second_run,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// History is the complete content of the session history file
type History struct {
	Sessions []Session `json:"sessions"`
}

// Last returns the most recent session, or nil when the history is empty
func (h *History) Last() *Session {
	if h == nil || len(h.Sessions) == 0 {
		return nil
	}
	return &h.Sessions[len(h.Sessions)-1]
}
