package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	sources := []string{"app/calculator.py", "app/order_service.py", "app/payment_service.py", "app/utils.py"}

	tests := []struct {
		name     string
		pattern  string
		expected int
	}{
		{name: "empty pattern returns all", pattern: "", expected: 4},
		{name: "glob matches suffix", pattern: "*_service.py", expected: 2},
		{name: "glob matches exact name", pattern: "utils.py", expected: 1},
		{name: "loose wildcard", pattern: "*order*", expected: 1},
		{name: "plain substring", pattern: "calc", expected: 1},
		{name: "question mark glob", pattern: "util?.py", expected: 1},
		{name: "no matches", pattern: "*inventory*", expected: 0},
		{name: "only stars", pattern: "**", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(sources, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d: %v", tt.expected, len(result), result)
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty source list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*.py")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("matches base name only", func(t *testing.T) {
		result := filter.FilterByName([]string{"service/models.py"}, "service")
		if len(result) != 0 {
			t.Errorf("directory names must not match, got %v", result)
		}
	})
}
