package main

import (
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFile    string
	backend    string
	modelsDir  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "chatd",
		Short:         "Load one local language model at a time and chat with it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error (default from config or info)")
	pf.StringVar(&g.logFile, "log-file", "", "Write logs to this file instead of stderr")
	pf.StringVar(&g.backend, "backend", "", "Engine backend: llama|genai|echo")
	pf.StringVar(&g.modelsDir, "models-dir", "", "Directory to scan for *.gguf model files")

	root.AddCommand(newServeCmd(g), newChatCmd(g), newModelsCmd(g))
	return root
}
