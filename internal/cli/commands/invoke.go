package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pyheal/internal/ai"
	"pyheal/internal/config"
	"pyheal/internal/execution"
	"pyheal/internal/factory"
	"pyheal/internal/healer"
	"pyheal/internal/logging"
	"pyheal/internal/parser"
	"pyheal/internal/storage"
	"pyheal/internal/ui"
)

// InvokeCommand handles the invoke command
type InvokeCommand struct {
	config  *config.Config
	parser  parser.Parser
	storage storage.Storage

	newModel    func(cfg *config.Config, logger zerolog.Logger) (ai.Model, error)
	newExecutor func(cfg *config.Config, logger zerolog.Logger) execution.Executor
	newConsole  func() *ui.Console
}

// NewInvokeCommand creates a new InvokeCommand
func NewInvokeCommand(cfg *config.Config, p parser.Parser, st storage.Storage) *InvokeCommand {
	return &InvokeCommand{
		config:   cfg,
		parser:   p,
		storage:  st,
		newModel: ai.NewModel,
		newExecutor: func(cfg *config.Config, logger zerolog.Logger) execution.Executor {
			return execution.NewRunner(cfg, logger)
		},
		newConsole: ui.NewConsole,
	}
}

// Execute runs the pipeline for one source file. A missing API key fails the command;
// anything that goes wrong after that is printed and the command still succeeds.
func (ic *InvokeCommand) Execute(cmd *cobra.Command, args []string) error {
	logger := logging.New(ic.config.Verbose)

	model, err := ic.newModel(ic.config, logger)
	if err != nil {
		return err
	}
	logger.Debug().Str("provider", model.Name()).Str("model", ic.config.Model).Msg("model ready")

	engine := ai.NewEngine(model, logger)
	testFactory := factory.NewTestFactory(ic.config, engine, ic.newExecutor(ic.config, logger), logger)
	orchestrator := healer.NewOrchestrator(ic.config, testFactory, engine, ic.parser, ic.storage, logger)

	console := ic.newConsole()
	defer console.Close()
	orchestrator.SetObserver(console)

	session, err := orchestrator.Invoke(cmd.Context(), args[0])
	if err != nil {
		console.Error(err)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), color.HiBlackString("Session %s recorded. Run `pyheal report` to review it.", session.ID))
	return nil
}
