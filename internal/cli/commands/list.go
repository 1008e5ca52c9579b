package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pyheal/internal/config"
	"pyheal/internal/discovery"
	"pyheal/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	root := lc.config.ProjectPath
	if len(args) > 0 {
		root = args[0]
	}

	scanner := discovery.NewScanner(lc.config.PathsToIgnore, lc.config.TestFilePrefix)
	sources, err := scanner.Scan(root)
	if err != nil {
		return err
	}

	sources = lc.filter.FilterByName(sources, lc.config.Flags.NameFilter)

	if len(sources) == 0 {
		color.Yellow("No Python sources found")
		return nil
	}

	lc.formatter.PrintSourceList(sources, lc.config.Flags.TestCases)
	return nil
}
