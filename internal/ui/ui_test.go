package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyheal/internal/config"
	"pyheal/internal/discovery"
	"pyheal/internal/domain"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func healedSession() *domain.Session {
	return &domain.Session{
		ID:         "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		Timestamp:  "2026-01-02T15:04:05Z",
		SourcePath: "calculator.py",
		TestPath:   "test_calculator.py",
		Provider:   "gemini",
		Model:      "gemini-3-flash-preview",
		FirstRun: &domain.RunRecord{
			ExitCode: 1,
			Passed:   2,
			Failed:   1,
			Failures: []domain.TestFailure{{TestName: "test_divide", Class: "TestCalculator", Kind: "FAIL", Message: "AssertionError: 2 != 3", File: "test_calculator.py", Line: 12}},
			Output:   "F..\nFAILED (failures=1)\n",
		},
		Healed:    true,
		SecondRun: &domain.RunRecord{ExitCode: 0, Passed: 3, Output: "...\nOK\n"},
	}
}

func TestConsole_Messages(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{out: &buf}

	c.Generating("pkg/calculator.py")
	c.Generated("pkg/test_calculator.py")
	c.Healing()
	c.Healed("pkg/calculator.py")
	c.Error(errors.New("boom"))
	c.Close()

	out := buf.String()
	assert.Contains(t, out, "Generating tests for calculator.py...")
	assert.Contains(t, out, "Success! Generated: pkg/test_calculator.py")
	assert.Contains(t, out, "Attempting to Self-Heal the code...")
	assert.Contains(t, out, "Code healed! Re-running tests...")
	assert.Contains(t, out, "Error: boom")
	assert.NotContains(t, out, "already healthy")
}

func TestConsole_Healthy(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{out: &buf}
	c.Healthy()
	assert.Equal(t, "Code is already healthy. Work complete!\n", buf.String())
}

func TestSpinner_StartStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Waiting")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestFormatter_PrintSession(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(config.New(), discovery.NewParser())
	f.SetOutput(&buf)

	f.PrintSession(healedSession())

	out := buf.String()
	assert.Contains(t, out, "Healing Session")
	assert.Contains(t, out, "exit 1, 2 passed, 1 failed")
	assert.Contains(t, out, "exit 0, 3 passed, 0 failed")
	assert.Contains(t, out, "│ Healed")
	assert.Contains(t, out, "second run is recorded above")
	assert.NotContains(t, out, "TestCalculator.test_divide", "failures come from the latest run")
}

func TestFormatter_PrintSession_Error(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(config.New(), discovery.NewParser())
	f.SetOutput(&buf)

	session := healedSession()
	session.Healed = false
	session.SecondRun = nil
	session.Error = "AI healing failed: overloaded"
	f.PrintSession(session)

	out := buf.String()
	assert.Contains(t, out, "✗ AI healing failed: overloaded")
	assert.Contains(t, out, "└── FAIL TestCalculator.test_divide")
}

func TestFormatter_PrintSourceList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "calculator.py"), "def add(a, b):\n    return a + b\n")
	writeFile(t, filepath.Join(dir, "test_calculator.py"), "class T:\n    def test_add(self):\n        pass\n    def test_sub(self):\n        pass\n")
	writeFile(t, filepath.Join(dir, "orders.py"), "x = 1\n")

	cfg := config.New()
	cfg.ProjectPath = dir
	f := NewFormatter(cfg, discovery.NewParser())

	var buf bytes.Buffer
	f.SetOutput(&buf)
	sources := []string{filepath.Join(dir, "calculator.py"), filepath.Join(dir, "orders.py")}
	f.PrintSourceList(sources, true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Found 2 Python source file(s):", lines[0])
	assert.Contains(t, buf.String(), "├── calculator.py [T]")
	assert.Contains(t, buf.String(), "│   ├── test_add")
	assert.Contains(t, buf.String(), "│   └── test_sub")
	assert.Contains(t, buf.String(), "└── orders.py\n")
}

func TestFormatSessionDetails(t *testing.T) {
	details := formatSessionDetails(healedSession())

	assert.Contains(t, details, "First run: exit 1")
	assert.Contains(t, details, "FAIL[white] TestCalculator.test_divide")
	assert.Contains(t, details, "at test_calculator.py:12")
	assert.Contains(t, details, "Second run: exit 0")
	assert.Less(t, strings.Index(details, "First run"), strings.Index(details, "Second run"))
}

func TestFormatSessionDetails_TruncatesOutput(t *testing.T) {
	session := healedSession()
	session.Healed = false
	session.FirstRun.Output = strings.Repeat("line\n", maxOutputLines+5)

	details := formatSessionDetails(session)
	assert.Contains(t, details, "... and 5 more lines")
	assert.NotContains(t, details, "Second run")
}

func TestFormatSessionItem(t *testing.T) {
	session := healedSession()
	assert.Equal(t, "[yellow]↻ [yellow]1.[white] calculator.py", formatSessionItem(session, 1))

	session.Healed = false
	assert.True(t, strings.HasPrefix(formatSessionItem(session, 2), "[green]✓"))

	session.Error = "x"
	assert.True(t, strings.HasPrefix(formatSessionItem(session, 3), "[red]✗"))
}

func TestRemoveSession(t *testing.T) {
	sessions := []domain.Session{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	sessions = removeSession(sessions, 1)
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
	assert.Equal(t, "c", sessions[1].ID)
}

func TestHistoryViewer_EmptyHistory(t *testing.T) {
	assert.NoError(t, NewHistoryViewer(nil).View(&domain.History{}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
