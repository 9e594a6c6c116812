package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/pipeline"
)

func newCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <episode-dir>",
		Short: "Assemble narration and clips into the final video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0])
		},
	}
	cmd.Flags().String("script", "", "Script path (default: <episode-dir>/Output/unified_script.json)")
	cmd.Flags().String("out", "", "Compiled video path (default: <episode-dir>/Output/compiled_video.mp4)")
	cmd.Flags().String("backgrounds", "", "Background image pool directory")
	cmd.Flags().String("intro-image", "", "Designated intro background image")
	cmd.Flags().Bool("keep-temp", false, "Retain converted narration segments")
	return cmd
}

func runCompile(cmd *cobra.Command, episodeDir string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	absEpisode, err := filepath.Abs(episodeDir)
	if err != nil {
		return err
	}
	scriptPath, _ := cmd.Flags().GetString("script")
	outPath, _ := cmd.Flags().GetString("out")

	backgroundDir := cfg.Compilation.BackgroundDir
	if cmd.Flags().Changed("backgrounds") {
		backgroundDir, _ = cmd.Flags().GetString("backgrounds")
	}
	introImage := cfg.Compilation.IntroImage
	if cmd.Flags().Changed("intro-image") {
		introImage, _ = cmd.Flags().GetString("intro-image")
	}
	keepTemp := cfg.Compilation.KeepTemp
	if cmd.Flags().Changed("keep-temp") {
		keepTemp, _ = cmd.Flags().GetBool("keep-temp")
	}

	ccfg := pipeline.CompileConfig{
		EpisodeDir:    absEpisode,
		ScriptPath:    scriptPath,
		OutputPath:    outPath,
		KeepTemp:      keepTemp,
		BackgroundDir: backgroundDir,
		IntroImage:    introImage,
		Tools:         cfg.Tools,
		Timeouts:      cfg.Timeouts,
		Logger:        log,
	}
	if err := ccfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()
	return pipeline.RunCompile(ctx, ccfg)
}
