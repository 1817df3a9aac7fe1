package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/quadsync"
	"github.com/Aman-CERP/quadsync/internal/watcher"
)

// newWatchCmd creates the watch command, which keeps the index synchronized
// with an N-Quads file until interrupted.
func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Watch an N-Quads file and keep the index synchronized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			sys, err := quadsync.Open(cfg)
			if err != nil {
				return err
			}
			defer sys.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := watcher.New(args[0], sys.Facts, debounce)
			fmt.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Delay before re-syncing after a file change")

	return cmd
}
