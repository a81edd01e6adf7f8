package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"chatd/internal/app"
	"chatd/internal/config"
	"chatd/internal/engine"
	"chatd/internal/registry"
	"chatd/pkg/types"
)

// loadConfig resolves settings: defaults, then the config file, then
// environment, then flags the user set explicitly.
func loadConfig(cmd *cobra.Command, g *globalFlags) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		fc, err := config.Load(g.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = fc.WithDefaults()
	}
	if v := os.Getenv("CHATD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if cfg.GenAIAPIKey == "" {
		cfg.GenAIAPIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("backend") {
		cfg.Backend = g.backend
	}
	if flags.Changed("models-dir") {
		cfg.ModelsDir = g.modelsDir
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// newLogger builds the process logger. A nil writer disables logging.
func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		return zerolog.Nop(), nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "chatd").Logger(), nil
}

// openLogSink returns the log destination: the --log-file if set, else
// fallback (which may be nil). The returned close func is never nil.
func openLogSink(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}

func buildCatalog(cfg config.Config) ([]types.Model, error) {
	models, err := registry.Build(cfg.ModelsDir, cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return models, nil
}

func buildApp(cfg config.Config, log *zerolog.Logger) (*app.App, error) {
	catalog, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}
	factory, err := engine.New(engine.Options{
		Backend:        cfg.Backend,
		LlamaCtx:       cfg.LlamaCtx,
		LlamaThreads:   cfg.LlamaThreads,
		LlamaGPULayers: cfg.LlamaGPULayers,
		GenAIAPIKey:    cfg.GenAIAPIKey,
		EchoStepDelay:  50 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("backend", cfg.Backend).Int("models", len(catalog)).Bool("llama_built", engine.LlamaBuilt()).Msg("catalog ready")
	return app.New(app.Config{
		Catalog:          catalog,
		Factory:          factory,
		Logger:           log,
		LoadTimeout:      cfg.LoadTimeout(),
		SendTimeout:      cfg.SendTimeout(),
		DropEmptyReplies: cfg.DropEmptyReplies,
	}), nil
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
