package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/meetmeter/internal/config"
	"github.com/alexanderramin/meetmeter/internal/llm"
	"github.com/alexanderramin/meetmeter/internal/logging"
)

// App holds the process-wide dependencies shared by all commands. Fields left
// nil fall back to the production implementations.
type App struct {
	Out io.Writer

	// IsInteractive reports whether Out is a terminal; analysis output is
	// rendered for humans when true and as JSON otherwise.
	IsInteractive func() bool

	LoadConfig   func(configFile string) (*config.Config, error)
	NewLLMClient func(cfg llm.LLMConfig, observer llm.Observer) (llm.LLMClient, error)

	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRootCmd creates the top-level "meetmeter" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	app.defaults()

	root := &cobra.Command{
		Use:           "meetmeter",
		Short:         "Meeting oppression analysis for your calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	root.SetOut(app.Out)
	addConfigFlag(root.PersistentFlags(), &app.configFile)

	root.AddCommand(
		newServeCmd(app),
		newMigrateCmd(app),
		newAnalyzeCmd(app),
	)

	return root
}

func (a *App) defaults() {
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.IsInteractive == nil {
		a.IsInteractive = func() bool { return false }
	}
	if a.LoadConfig == nil {
		a.LoadConfig = config.Load
	}
	if a.NewLLMClient == nil {
		a.NewLLMClient = llm.NewClient
	}
}

func (a *App) load() error {
	cfg, err := a.LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
