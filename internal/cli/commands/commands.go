package commands

import (
	"pyheal/internal/cli"
	"pyheal/internal/config"
	"pyheal/internal/discovery"
	"pyheal/internal/parser"
	"pyheal/internal/storage"
	"pyheal/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Invoke *InvokeCommand
	List   *ListCommand
	Report *ReportCommand
}

// NewCommands creates all commands with dependencies.
// cfg is filled in by the root command's PersistentPreRunE before any command runs.
func NewCommands(cfg *config.Config) *Commands {
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, discovery.NewParser())
	historyViewer := ui.NewHistoryViewer(jsonStorage)

	return &Commands{
		Invoke: NewInvokeCommand(cfg, parser.NewPythonParser(), jsonStorage),
		List:   NewListCommand(cfg, discovery.NewFilter(), formatter),
		Report: NewReportCommand(cfg, jsonStorage, formatter, historyViewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Arguments are valid by now; later failures are not usage mistakes
		cmd.SilenceUsage = true
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to a config file (default ./pyheal.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Show debug logs on stderr")

	// Invoke command
	invokeCmd := &cobra.Command{
		Use:   "invoke <path_to_file>",
		Short: "Generate unit tests for a Python file and self-heal it once",
		Long: "Ask the model for a unittest file covering the given source, run it, and if it fails " +
			"send the source and the failure output back to the model, overwrite the source with the " +
			"answer and run the tests one more time.",
		Args: cobra.ExactArgs(1),
		RunE: c.Invoke.Execute,
	}
	invokeCmd.Flags().StringVar(&flags.Provider, "provider", "", "Model provider: gemini or openai")
	invokeCmd.Flags().StringVar(&flags.Model, "model", "", "Model id (default depends on the provider)")
	invokeCmd.Flags().StringVar(&flags.Runner, "runner", "", "Python test runner module: unittest or pytest")
	invokeCmd.Flags().StringVar(&flags.PythonPath, "python", "", "Python interpreter used to run the tests")
	invokeCmd.Flags().BoolVar(&flags.Backup, "backup", false, "Copy the source to <file>.bak before overwriting it")
	invokeCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Kill a test run after this long (0 = no limit)")
	rootCmd.AddCommand(invokeCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List Python sources",
		Long:  "Scan a directory for Python sources and mark the ones that already have a generated test",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter sources by name pattern (supports wildcards, e.g., '*_service.py' or '*order*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "Show the test functions of each generated test file")
	rootCmd.AddCommand(listCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Browse recorded healing sessions",
		Long:  "Display the session history in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Report.Execute,
	}
	reportCmd.Flags().BoolVar(&flags.Plain, "plain", false, "Print the last session instead of opening the viewer")
	rootCmd.AddCommand(reportCmd)
}
