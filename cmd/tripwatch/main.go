/*
Package main provides the CLI entrypoint for tripwatch. It wires the scan,
plan and classify subcommands, loads configuration, and initializes logging.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanehull/tripwatch/internal/config"
	"github.com/shanehull/tripwatch/internal/logger"
)

const defaultConfigPath = "configs/config.yaml"

type app struct {
	configPath string
	cfg        *config.Config
}

// load reads the config file once, before any subcommand runs.
func (a *app) load(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger.Setup(cfg.Environment)
	return nil
}

func newRootCommand() *cobra.Command {
	a := &app{}

	scanCmd := scanCommand(a)

	rootCmd := &cobra.Command{
		Use:   "tripwatch",
		Short: "Watches SAR for bookable train tickets on chosen routes and dates",
		// Running without a subcommand performs a scan.
		RunE:              scanCmd.RunE,
		PersistentPreRunE: a.load,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "Config File Path")
	rootCmd.Flags().AddFlagSet(scanCmd.Flags())

	rootCmd.AddCommand(
		scanCmd,
		planCommand(a),
		classifyCommand(),
	)

	return rootCmd
}

func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	err := newRootCommand().Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1) //nolint: gocritic
	}
}
