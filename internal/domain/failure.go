package domain

// TestFailure represents a failed or errored test case reported by the runner
type TestFailure struct {
	TestName string `json:"test_name"`
	Class    string `json:"class,omitempty"`
	Kind     string `json:"kind"` // "FAIL" or "ERROR"
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}
