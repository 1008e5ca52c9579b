package domain

// SourceFile is a Python file the tests are generated for
type SourceFile struct {
	Path    string // Path as given on the command line
	Module  string // Importable module name, e.g. "calculator"
	Content string
}
