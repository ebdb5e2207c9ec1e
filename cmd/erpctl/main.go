// Command erpctl runs operator tasks against the same database and cache as
// the API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bizledger/backend/internal/bootstrap"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "erpctl",
	Short:         "BizLedger operator commands",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (defaults to ./config.yaml and environment)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp loads configuration, assembles the application and hands it to fn.
// Background workers are not started.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg.Scheduler.Enabled = false

	log, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := cmd.Context()
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(context.Background()); cerr != nil {
			log.Warn("Error releasing resources", zap.Error(cerr))
		}
	}()
	return fn(ctx, app)
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}
