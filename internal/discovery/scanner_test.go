package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"calculator.py",
		"test_calculator.py",
		"pkg/__init__.py",
		"pkg/orders.py",
		"pkg/conftest.py",
		"pkg/notes.txt",
		"venv/lib/site.py",
		".venv/lib/site.py",
		"__pycache__/calculator.py",
		".git/hooks/pre_commit.py",
	}
	for _, file := range files {
		fullPath := filepath.Join(tmpDir, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", file, err)
		}
		if err := os.WriteFile(fullPath, []byte("x = 1\n"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}

	scanner := NewScanner([]string{"venv", ".venv", "__pycache__"}, "test_")

	t.Run("finds sources only", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var rel []string
		for _, r := range results {
			p, _ := filepath.Rel(tmpDir, r)
			rel = append(rel, filepath.ToSlash(p))
		}
		sort.Strings(rel)

		expected := []string{"calculator.py", "pkg/orders.py"}
		if len(rel) != len(expected) {
			t.Fatalf("expected %v, got %v", expected, rel)
		}
		for i := range expected {
			if rel[i] != expected[i] {
				t.Errorf("expected %s at %d, got %s", expected[i], i, rel[i])
			}
		}
	})

	t.Run("root may be a hidden directory", func(t *testing.T) {
		hidden := filepath.Join(tmpDir, ".venv")
		results, err := NewScanner(nil, "test_").Scan(hidden)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("expected 1 source under %s, got %d", hidden, len(results))
		}
	})

	t.Run("error on non-existent path", func(t *testing.T) {
		if _, err := scanner.Scan(filepath.Join(tmpDir, "missing")); err == nil {
			t.Error("expected error for non-existent path")
		}
	})

	t.Run("error on file path", func(t *testing.T) {
		if _, err := scanner.Scan(filepath.Join(tmpDir, "calculator.py")); err == nil {
			t.Error("expected error for file path")
		}
	})
}
