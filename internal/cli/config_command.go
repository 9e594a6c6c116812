package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clipforge/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an annotated clipforge.toml to the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(config.DefaultFileName); err == nil {
				return fmt.Errorf("%s already exists", config.DefaultFileName)
			}
			if err := os.WriteFile(config.DefaultFileName, []byte(config.Sample()), 0o644); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", config.DefaultFileName)
			return nil
		},
	})
	return cmd
}
