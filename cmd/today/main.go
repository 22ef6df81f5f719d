package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"git.sr.ht/~jakintosh/today/internal/config"
	"git.sr.ht/~jakintosh/today/internal/logging"
	"git.sr.ht/~jakintosh/today/internal/store"
)

var Version = "dev"

var (
	configPath string
	logLevel   string
	storeKind  string
	seed       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "today",
		Short:         "Today's Tasks - a single-screen task list",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./today.toml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (env: TODAY_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "task store: memory or sqlite (env: TODAY_STORE)")
	rootCmd.PersistentFlags().BoolVar(&seed, "seed", true, "start with the example tasks (env: TODAY_SEED)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tuiCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration with flags > env > file > defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Log.Level = getConfigValue(logLevel, cfg.Log.Level)
	cfg.Store = getConfigValue(storeKind, cfg.Store)
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getConfigValue returns the flag value if set, otherwise the fallback.
func getConfigValue(flagVal, fallback string) string {
	if flagVal != "" {
		return flagVal
	}
	return fallback
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	opts := logging.DefaultOptions()
	opts.Level = cfg.Log.Level
	opts.Format = cfg.Log.Format
	opts.ReportTimestamp = cfg.Log.Timestamps
	return logging.New(w, opts)
}

// newStore opens the configured store, seeded when cfg.Seed is set.
func newStore(cfg *config.Config, logger *log.Logger) (store.Store, error) {
	s, err := store.Open(cfg.Store, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}
	if cfg.Seed {
		s.Seed()
	}
	logger.Debug("store ready", "kind", cfg.Store, "tasks", s.Len())
	return s, nil
}
