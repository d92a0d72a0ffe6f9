// Command labelgen records product labels with sequential serial numbers.
//
// Run without arguments to open the interactive form. The generate, bulk and
// history subcommands expose the same operations for scripting.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labelgen/internal/config"
	"labelgen/internal/labels"
	"labelgen/internal/logging"
	"labelgen/internal/store"
)

var (
	// Global flags
	cfgPath string
	dbPath  string
	verbose bool

	// Loaded in PersistentPreRunE
	cfg *config.Config

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "labelgen",
	Short: "Label generator with sequential serial numbers",
	Long: `labelgen assigns serial numbers (PS000001, PS000002, ...) to product labels
and keeps every label in a local SQLite history.

Run without arguments to start the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Store.Path = dbPath
		}

		// The form owns the terminal, so it only logs to a file.
		if !cmd.HasParent() {
			logger, err = logging.NewFileLogger(cfg.Logging.Options())
		} else {
			logger, err = logging.NewConsoleLogger(verbose)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Initialize(logger)
		logging.BootDebug("Config loaded from %s (store=%s driver=%s)", cfgPath, cfg.Store.Path, cfg.Store.Driver)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Label database path (overrides store.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp opens the configured store and builds the App around it.
// The caller must Close the returned store.
func openApp() (*labels.App, *store.Store, error) {
	st, err := store.Open(cfg.Store.Path, cfg.Store.Driver)
	if err != nil {
		return nil, nil, err
	}
	return labels.New(st, cfg.Label.Company), st, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logging.Boot("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
