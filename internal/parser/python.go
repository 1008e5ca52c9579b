package parser

import (
	"regexp"
	"strconv"
	"strings"

	"pyheal/internal/domain"
)

var (
	// unittest
	ranPattern       = regexp.MustCompile(`(?m)^Ran (\d+) tests? in `)
	unittestFailures = regexp.MustCompile(`(?m)^FAILED \(.*?failures=(\d+)`)
	unittestErrors   = regexp.MustCompile(`(?m)^FAILED \(.*?errors=(\d+)`)
	blockHeader      = regexp.MustCompile(`^(FAIL|ERROR): (\S+) \((.*)\)\s*$`)
	traceFrame       = regexp.MustCompile(`File "([^"]+)", line (\d+)`)

	// pytest
	pytestPassed  = regexp.MustCompile(`(\d+) passed`)
	pytestFailed  = regexp.MustCompile(`(\d+) failed`)
	pytestErrors  = regexp.MustCompile(`(\d+) errors?\b`)
	pytestSummary = regexp.MustCompile(`^(FAILED|ERROR) (\S+?)(?: - (.*))?$`)
	pytestFooter  = regexp.MustCompile(`(?m)^=+ .*\bin [\d.]+s.* =+$`)
)

// PythonParser parses unittest and pytest output
type PythonParser struct{}

// NewPythonParser creates a new PythonParser
func NewPythonParser() *PythonParser {
	return &PythonParser{}
}

// ParseTestCounts extracts passed and failed test case counts from runner output.
// Returns (passed, failed). If parsing fails, returns (1,0) for success or (0,1) for failure.
func (p *PythonParser) ParseTestCounts(result domain.TestResult) (passed, failed int) {
	output := result.Output

	// unittest: "Ran N tests in ..." then "OK" or "FAILED (failures=F, errors=E)"
	if m := ranPattern.FindStringSubmatch(output); m != nil {
		total := atoi(m[1])
		failed = atoi(submatch(unittestFailures, output)) + atoi(submatch(unittestErrors, output))
		if total >= failed {
			passed = total - failed
		}
		if passed > 0 || failed > 0 {
			return passed, failed
		}
	}

	// pytest: "==== 1 failed, 2 passed in 0.03s ===="
	if footer := pytestFooter.FindString(output); footer != "" {
		passed = atoi(submatch(pytestPassed, footer))
		failed = atoi(submatch(pytestFailed, footer)) + atoi(submatch(pytestErrors, footer))
		if passed > 0 || failed > 0 {
			return passed, failed
		}
	}

	// Fallback: one "test" per file
	if result.Success() {
		return 1, 0
	}
	return 0, 1
}

// ParseFailure extracts failed test cases from runner output
func (p *PythonParser) ParseFailure(result domain.TestResult) []domain.TestFailure {
	lines := strings.Split(result.Output, "\n")
	if failures := p.parseUnittest(lines); len(failures) > 0 {
		return failures
	}
	return p.parsePytest(lines)
}

// parseUnittest reads the "FAIL: name (class)" blocks unittest prints between ===== separators
func (p *PythonParser) parseUnittest(lines []string) []domain.TestFailure {
	var failures []domain.TestFailure
	for i := 0; i < len(lines); i++ {
		m := blockHeader.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		failure := domain.TestFailure{
			Kind:     m[1],
			TestName: m[2],
			Class:    strings.TrimSuffix(m[3], "."+m[2]),
		}

		// Body starts after the dashed rule that follows the header
		j := i + 1
		if j < len(lines) && strings.HasPrefix(lines[j], "-----") {
			j++
		}
		var body []string
		for ; j < len(lines); j++ {
			if strings.HasPrefix(lines[j], "=====") || strings.HasPrefix(lines[j], "-----") {
				break
			}
			body = append(body, lines[j])
		}
		i = j - 1

		for k := len(body) - 1; k >= 0; k-- {
			if line := strings.TrimSpace(body[k]); line != "" {
				failure.Message = line
				break
			}
		}
		for _, line := range body {
			if fm := traceFrame.FindStringSubmatch(line); fm != nil {
				failure.File = fm[1]
				failure.Line = atoi(fm[2])
			}
		}
		failures = append(failures, failure)
	}
	return failures
}

// parsePytest reads the "short test summary info" lines
func (p *PythonParser) parsePytest(lines []string) []domain.TestFailure {
	var failures []domain.TestFailure
	for _, line := range lines {
		m := pytestSummary.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || !strings.Contains(m[2], "::") {
			continue
		}
		parts := strings.Split(m[2], "::")
		failure := domain.TestFailure{
			Kind:     "FAIL",
			TestName: parts[len(parts)-1],
			File:     parts[0],
			Message:  m[3],
		}
		if m[1] == "ERROR" {
			failure.Kind = "ERROR"
		}
		if len(parts) > 2 {
			failure.Class = strings.Join(parts[1:len(parts)-1], ".")
		}
		failures = append(failures, failure)
	}
	return failures
}

func submatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) >= 2 {
		return m[1]
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
