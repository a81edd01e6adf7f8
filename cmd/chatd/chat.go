package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chatd/internal/tui"
)

func newChatCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive terminal chat",
		Long:  "Pick a model from the catalog, wait for it to load and chat with it. Ctrl+R returns to model selection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			// the terminal belongs to the TUI; log only to a file
			sink, closeSink, err := openLogSink(g.logFile, nil)
			if err != nil {
				return err
			}
			defer closeSink()
			log, err := newLogger(cfg.LogLevel, sink)
			if err != nil {
				return err
			}
			a, err := buildApp(cfg, &log)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, a)
		},
	}
}
