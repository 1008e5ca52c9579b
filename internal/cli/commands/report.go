package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pyheal/internal/config"
	"pyheal/internal/storage"
	"pyheal/internal/ui"
)

// ReportCommand handles the report command
type ReportCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter, viewer ui.Viewer) *ReportCommand {
	return &ReportCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	history, err := rc.storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load session history: %w", err)
	}

	if !rc.config.Flags.Plain {
		return rc.viewer.View(history)
	}

	last := history.Last()
	if last == nil {
		color.Yellow("No sessions recorded yet")
		return nil
	}
	rc.formatter.PrintSession(last)
	return nil
}
