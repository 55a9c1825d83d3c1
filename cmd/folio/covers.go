package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/cover"
)

var coversCmd = &cobra.Command{
	Use:   "covers",
	Short: "Generate placeholder cover images for posts without one",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := cover.NewFiller(cfg.ContentDir, cfg.PublicDir,
			cover.WithExt(cfg.Ext),
			cover.WithLogger(logger),
		).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d, skipped %d, failed %d\n", len(res.Generated), len(res.Skipped), len(res.Failed))
		if len(res.Failed) > 0 {
			return fmt.Errorf("%d covers failed", len(res.Failed))
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(coversCmd, versionCmd)
}
