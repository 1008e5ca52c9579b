package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Console reports invoke progress on the terminal
type Console struct {
	out     io.Writer
	spinner *Spinner
	animate bool
}

// NewConsole creates a Console that prints to stdout and animates a spinner on stderr
func NewConsole() *Console {
	return &Console{out: os.Stdout, animate: true}
}

// NewConsoleWriter creates a Console that prints to w without a spinner
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Generating is called before the model is asked for tests
func (c *Console) Generating(sourcePath string) {
	fmt.Fprintln(c.out, color.CyanString("Generating tests for %s...", filepath.Base(sourcePath)))
	c.startSpinner("Waiting for the model")
}

// Generated is called once the test file is on disk
func (c *Console) Generated(testPath string) {
	c.stopSpinner()
	fmt.Fprintln(c.out, color.GreenString("Success! Generated: %s", testPath))
}

// Healthy is called when the first run passes
func (c *Console) Healthy() {
	fmt.Fprintln(c.out, color.GreenString("Code is already healthy. Work complete!"))
}

// Healing is called before the source is sent back to the model
func (c *Console) Healing() {
	fmt.Fprintln(c.out, color.YellowString("Attempting to Self-Heal the code..."))
	c.startSpinner("Waiting for the fix")
}

// Healed is called after the source was overwritten
func (c *Console) Healed(sourcePath string) {
	c.stopSpinner()
	fmt.Fprintln(c.out, color.GreenString("Code healed! Re-running tests..."))
}

// Close stops a spinner left running by a failed step
func (c *Console) Close() {
	c.stopSpinner()
}

// Error prints a pipeline error
func (c *Console) Error(err error) {
	c.stopSpinner()
	fmt.Fprintln(c.out, color.RedString("Error: %v", err))
}

func (c *Console) startSpinner(description string) {
	if !c.animate {
		return
	}
	c.spinner = NewSpinner(description)
	c.spinner.Start()
}

func (c *Console) stopSpinner() {
	if c.spinner == nil {
		return
	}
	c.spinner.Stop()
	c.spinner = nil
}
