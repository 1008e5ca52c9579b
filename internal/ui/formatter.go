package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"pyheal/internal/config"
	"pyheal/internal/discovery"
	"pyheal/internal/domain"
)

const (
	tableTop = "┌─────────────────────────────────┬─────────────────────────────────────────┐"
	tableSep = "├─────────────────────────────────┼─────────────────────────────────────────┤"
	tableBot = "└─────────────────────────────────┴─────────────────────────────────────────┘"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	parser *discovery.Parser
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config, parser *discovery.Parser) *Formatter {
	return &Formatter{
		config: cfg,
		parser: parser,
		out:    os.Stdout,
	}
}

// SetOutput redirects everything the formatter prints
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

// PrintSession prints a summary table of one invoke session
func (f *Formatter) PrintSession(session *domain.Session) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                              Healing Session                              ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════════════════╝"))

	fmt.Fprintln(f.out, tableTop)
	f.row("Session", session.ID, color.WhiteString)
	fmt.Fprintln(f.out, tableSep)
	f.row("Timestamp", session.Timestamp, color.WhiteString)
	fmt.Fprintln(f.out, tableSep)
	f.row("Source", f.relative(session.SourcePath), color.YellowString)
	fmt.Fprintln(f.out, tableSep)
	f.row("Test File", f.relative(session.TestPath), color.YellowString)
	fmt.Fprintln(f.out, tableSep)
	f.row("Model", session.Provider+"/"+session.Model, color.WhiteString)
	fmt.Fprintln(f.out, tableSep)
	f.run("First Run", session.FirstRun)
	fmt.Fprintln(f.out, tableSep)
	healed := "no"
	if session.Healed {
		healed = "yes"
		if session.BackupPath != "" {
			healed += " (backup " + filepath.Base(session.BackupPath) + ")"
		}
	}
	f.row("Healed", healed, color.WhiteString)
	fmt.Fprintln(f.out, tableSep)
	f.run("Second Run", session.SecondRun)
	fmt.Fprintln(f.out, tableBot)

	fmt.Fprintln(f.out)
	switch {
	case session.Error != "":
		fmt.Fprintln(f.out, color.RedString("✗ %s", session.Error))
	case !session.Healed:
		fmt.Fprintln(f.out, color.GreenString("✓ Generated tests passed on the first run"))
	default:
		fmt.Fprintln(f.out, color.YellowString("↻ Source was healed once; the second run is recorded above"))
	}

	failures := lastFailures(session)
	if len(failures) > 0 {
		fmt.Fprintln(f.out)
		f.printFailures(failures)
	}
}

func (f *Formatter) row(label, value string, paint func(string, ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", label, paint("%-39s", truncate(value, 39)))
}

func (f *Formatter) run(label string, rec *domain.RunRecord) {
	if rec == nil {
		f.row(label, "-", color.WhiteString)
		return
	}
	value := fmt.Sprintf("exit %d, %d passed, %d failed (%.2fs)", rec.ExitCode, rec.Passed, rec.Failed, rec.DurationSeconds)
	if rec.ExitCode == 0 {
		f.row(label, value, color.GreenString)
	} else {
		f.row(label, value, color.RedString)
	}
}

func (f *Formatter) printFailures(failures []domain.TestFailure) {
	for i, failure := range failures {
		connector := "├── "
		if i == len(failures)-1 {
			connector = "└── "
		}
		name := failure.TestName
		if failure.Class != "" {
			name = failure.Class + "." + name
		}
		fmt.Fprintf(f.out, "%s%s %s\n", connector, color.RedString("%s", failure.Kind), name)
	}
}

// lastFailures returns the failures of the latest run in the session
func lastFailures(session *domain.Session) []domain.TestFailure {
	if session.SecondRun != nil {
		return session.SecondRun.Failures
	}
	if session.FirstRun != nil {
		return session.FirstRun.Failures
	}
	return nil
}

// PrintSourceList prints the Python sources found by discovery as a tree.
// Sources that already have a generated test are marked [T]; with showTestCases
// the test functions of that file are listed beneath the source.
func (f *Formatter) PrintSourceList(sources []string, showTestCases bool) {
	fmt.Fprintln(f.out, color.GreenString("Found %d Python source file(s):\n", len(sources)))

	for i, source := range sources {
		isLastFile := i == len(sources)-1
		connector, childPrefix := "├── ", "│   "
		if isLastFile {
			connector, childPrefix = "└── ", "    "
		}

		testPath := f.config.GetTestPath(source)
		hasTest := fileExists(testPath)
		marker := ""
		if hasTest {
			marker = " " + color.GreenString("[T]")
		}
		fmt.Fprintf(f.out, "%s%s%s\n", connector, color.CyanString("%s", f.relative(source)), marker)

		if !showTestCases || !hasTest {
			continue
		}

		testCases, err := f.parser.FindTestCases(testPath)
		if err != nil {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, color.RedString("error reading %s: %v", filepath.Base(testPath), err))
			continue
		}
		if len(testCases) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, color.RedString("(no test cases found)"))
			continue
		}
		for j, testCase := range testCases {
			caseConnector := "├── "
			if j == len(testCases)-1 {
				caseConnector = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s\n", childPrefix, caseConnector, color.YellowString("%s", testCase))
		}
	}
}

// relative shortens a path against the project root for display
func (f *Formatter) relative(path string) string {
	if path == "" {
		return "-"
	}
	root, err := filepath.Abs(f.config.ProjectPath)
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
