package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"
)

// testFuncPattern matches test functions and methods, including async ones:
//
//	def test_add(self):
//	async def test_fetch():
var testFuncPattern = regexp.MustCompile(`(?m)^[ \t]*(?:async[ \t]+)?def[ \t]+(test\w*)[ \t]*\(`)

// Parser reads generated test files to extract their test cases
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestCases finds all test functions in a Python test file, sorted and deduplicated
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	seen := make(map[string]bool)
	var testCases []string
	for _, match := range testFuncPattern.FindAllStringSubmatch(string(content), -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			testCases = append(testCases, match[1])
		}
	}
	sort.Strings(testCases)

	return testCases, nil
}
