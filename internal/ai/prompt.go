package ai

import (
	"strings"
	"text/template"
)

var generateTemplate = template.Must(template.New("generate").Parse(`
Generate a Python 'unittest' file for this code.

RULES:
1. Class must inherit from unittest.TestCase.
2. Methods must start with 'test_'.
3. Include 'import unittest' and 'from {{.Module}} import *'.
4. Return ONLY the code. No markdown, no backticks.

CODE:
{{.Source}}
`))

var healTemplate = template.Must(template.New("heal").Parse(`
The following Python code has a bug that caused a unit test failure.

ERROR MESSAGE:
{{.Error}}

ORIGINAL CODE:
{{.Source}}

Fix the code so the tests pass.
Return ONLY the corrected raw Python code. No explanation, no markdown.
`))

// BuildGeneratePrompt renders the test generation prompt for a source module
func BuildGeneratePrompt(source, module string) (string, error) {
	return render(generateTemplate, map[string]string{"Source": source, "Module": module})
}

// BuildHealPrompt renders the fix prompt from the failing source and the runner output
func BuildHealPrompt(source, errorText string) (string, error) {
	return render(healTemplate, map[string]string{"Source": source, "Error": errorText})
}

func render(tmpl *template.Template, data map[string]string) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
