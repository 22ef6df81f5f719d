package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"git.sr.ht/~jakintosh/today/internal/logging"
	"git.sr.ht/~jakintosh/today/internal/tui"
)

func tuiCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the task screen in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// The terminal belongs to the screen; logs go to a file or nowhere.
			logger := logging.Discard()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logger = newLogger(cfg, f)
			}

			st, err := newStore(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			return tui.Run(cmd.Context(), st, cfg.Keys, logger)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
