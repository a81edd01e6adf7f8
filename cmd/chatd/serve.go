package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chatd/internal/httpapi"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr        string
		corsOrigins string
		preload     string
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the HTTP API",
		Example: "  chatd serve --backend echo --addr :8080\n  chatd serve --config chatd.yaml --model tinyllama.gguf",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("cors-origins") {
				cfg.CORSEnabled = true
				cfg.CORSOrigins = splitCSV(corsOrigins)
			}
			sink, closeSink, err := openLogSink(g.logFile, os.Stderr)
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

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			httpapi.SetLogger(log.With().Str("component", "http").Logger())
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
			httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, []string{"Content-Type", "X-Log-Level"})
			httpapi.SetBaseContext(ctx)

			if preload != "" {
				if err := a.Select(preload); err != nil {
					return err
				}
				op, err := a.Load()
				if err != nil {
					return err
				}
				log.Info().Str("model", op.Model).Str("op", op.OperationID).Msg("preloading")
			}

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(a),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Msg("chatd listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	defaultAddr := ":8080"
	if v := os.Getenv("CHATD_ADDR"); v != "" {
		defaultAddr = v
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "HTTP listen address (defaults CHATD_ADDR or :8080)")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Enable CORS for these comma-separated origins")
	cmd.Flags().StringVar(&preload, "model", "", "Select and start loading this catalog id on startup")
	return cmd
}
