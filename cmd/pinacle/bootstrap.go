package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/pinacle/internal/appconfig"
	"pkt.systems/pslog"
)

func newBootstrapCmd() *cobra.Command {
	var outputPath string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			path, err := appconfig.WriteDefault(outputPath, overwrite)
			if err != nil {
				return err
			}
			logger.Info("bootstrap wrote", "path", path, "name", "config.yaml")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "config file path")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing config")
	return cmd
}
