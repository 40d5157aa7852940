package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/narvi-dev/narvi/internal/config"
	"github.com/narvi-dev/narvi/internal/errors"
)

func initCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.ConfigFileName,
		Long: `Write a narvi.yaml with the effective configuration to the
config directory. Environment overrides are included.

Examples:
  narvi init
  narvi init --config ./deploy --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(a.configDir) && !force {
				return errors.New("N030").
					WithDetail(config.ConfigFileName + " already exists in " + a.configDir).
					WithSuggestion("Use --force to overwrite it.")
			}
			path := filepath.Join(a.configDir, config.ConfigFileName)
			if err := a.cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
