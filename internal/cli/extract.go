package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/pipeline"
)

func newExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <script.json>",
		Short: "Cut the script's clip sections out of the source video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0])
		},
	}
	cmd.Flags().String("source", "", "Source video to cut from (required)")
	cmd.Flags().String("out", "", "Clips output directory (default: <script dir>/clips)")
	cmd.Flags().Float64("start-buffer", 0, "Seconds subtracted from each clip start")
	cmd.Flags().Float64("end-buffer", 0, "Seconds added to each clip end")
	cmd.Flags().Bool("continue-on-error", false, "Keep going when a clip fails all attempts")
	cmd.Flags().Bool("dry-run", false, "Resolve and validate clips without cutting")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func runExtract(cmd *cobra.Command, scriptPath string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	absScript, err := filepath.Abs(scriptPath)
	if err != nil {
		return err
	}
	source, _ := cmd.Flags().GetString("source")
	outDir, _ := cmd.Flags().GetString("out")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// File config supplies defaults; only flags the user set override it.
	startBuffer := cfg.Extraction.StartBuffer
	if cmd.Flags().Changed("start-buffer") {
		startBuffer, _ = cmd.Flags().GetFloat64("start-buffer")
	}
	endBuffer := cfg.Extraction.EndBuffer
	if cmd.Flags().Changed("end-buffer") {
		endBuffer, _ = cmd.Flags().GetFloat64("end-buffer")
	}
	continueOnError := cfg.Extraction.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		continueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	ecfg := pipeline.ExtractConfig{
		ScriptPath:      absScript,
		SourceVideo:     source,
		OutDir:          outDir,
		StartBuffer:     startBuffer,
		EndBuffer:       endBuffer,
		ContinueOnError: continueOnError,
		DryRun:          dryRun,
		Tools:           cfg.Tools,
		Timeouts:        cfg.Timeouts,
		Logger:          log,
	}
	if err := ecfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()
	return pipeline.RunExtract(ctx, ecfg)
}
