package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clipforge/internal/config"
	"clipforge/internal/logging"

	"go.uber.org/zap"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "clipforge",
		Short:        "Cut script-selected clips and compile them into one video",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "", "Path to clipforge.toml")
	root.PersistentFlags().String("log-level", "", "Override log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "Override log format (console, json)")

	root.AddCommand(newExtractCommand())
	root.AddCommand(newCompileCommand())
	root.AddCommand(newConfigCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config file and builds the logger, applying the
// persistent flag overrides.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Logging.Format = format
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
