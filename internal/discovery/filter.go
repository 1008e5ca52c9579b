package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters source files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the files whose base name matches pattern.
// Supports globs like "*_service.py", loose wildcards like "*order*" and plain substrings.
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}

	var filtered []string
	for _, file := range files {
		if matchesName(filepath.Base(file), pattern) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

func matchesName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	// Every literal piece between the stars must appear somewhere in the name
	found := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		if !strings.Contains(name, part) {
			return false
		}
		found = true
	}
	return found
}
