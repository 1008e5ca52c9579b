package ai

import (
	"regexp"
	"strings"
)

// fenceLine matches a whole markdown fence line, with or without a language tag:
// ```, ```python, ```python3, ```pycon
var fenceLine = regexp.MustCompile("(?m)^[ \t]*```[\\w+.-]*[ \t\r]*$")

// StripFences removes markdown code fence lines from the response and trims surrounding whitespace
func StripFences(text string) string {
	return strings.TrimSpace(fenceLine.ReplaceAllString(text, ""))
}
