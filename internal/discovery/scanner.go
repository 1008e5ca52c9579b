package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner finds Python source files that tests can be generated for
type Scanner struct {
	skipDirs   map[string]bool
	testPrefix string
}

// NewScanner creates a new Scanner that skips the given directory names and
// any file whose name starts with testPrefix
func NewScanner(skipDirs []string, testPrefix string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap, testPrefix: testPrefix}
}

// Scan finds all Python sources in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var sources []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isSource(d.Name()) {
			sources = append(sources, path)
		}
		return nil
	})

	return sources, err
}

func (s *Scanner) isSource(name string) bool {
	if !strings.HasSuffix(name, ".py") {
		return false
	}
	if s.testPrefix != "" && strings.HasPrefix(name, s.testPrefix) {
		return false
	}
	// Package markers and pytest fixtures have nothing to test on their own
	return name != "__init__.py" && name != "conftest.py"
}
