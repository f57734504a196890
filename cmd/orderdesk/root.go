package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/orderdesk/internal/cli"
	"github.com/aretw0/orderdesk/internal/config"
	"github.com/aretw0/orderdesk/internal/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "orderdesk",
	Short: "Orderdesk is a conversational vehicle order desk",
	Long: `Orderdesk takes vehicle orders in plain language: it proposes a model,
waits for an explicit confirmation, records the order and keeps stock in sync.
It can be served over HTTP, exposed to agents over MCP, or used from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")

		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}

		level, err := logging.Parse(loaded.LogLevel)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ./"+config.DefaultPath+" when present)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}

// buildApp wires the desk from the loaded configuration.
func buildApp(ctx context.Context) (*cli.App, error) {
	app, err := cli.Build(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing orderdesk: %w", err)
	}
	return app, nil
}
