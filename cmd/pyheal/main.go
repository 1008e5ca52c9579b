package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"pyheal/internal/cli"
	"pyheal/internal/cli/commands"
	"pyheal/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "pyheal",
		Short: "LLM-driven Python unit-test generator with self-healing",
		Long: `Generate unittest files for Python sources with a generative model, run them,
and when they fail let the model patch the source once and run the tests again.`,
		Version:       version,
		SilenceErrors: true,
	}

	// Filled in from defaults, .env, pyheal.yaml, PYHEAL_* and flags before a command runs
	cfg := config.New()

	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
