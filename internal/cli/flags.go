package cli

import (
	"time"

	"pyheal/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile string
	Provider   string
	Model      string
	Runner     string
	PythonPath string
	Backup     bool
	Timeout    time.Duration
	Verbose    bool
	NameFilter string
	TestCases  bool
	Plain      bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile: f.ConfigFile,
		Provider:   f.Provider,
		Model:      f.Model,
		Runner:     f.Runner,
		PythonPath: f.PythonPath,
		Backup:     f.Backup,
		Timeout:    f.Timeout,
		Verbose:    f.Verbose,
		NameFilter: f.NameFilter,
		TestCases:  f.TestCases,
		Plain:      f.Plain,
	}
}
