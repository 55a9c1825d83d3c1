package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/folio/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every post against the publishing rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := validate.New(cfg.ContentDir, cfg.PublicDir,
			validate.WithExt(cfg.Ext),
			validate.WithLogger(logger),
		).ValidateAll(cmd.Context())
		if err != nil {
			return err
		}
		if err := report.Write(cmd.OutOrStdout()); err != nil {
			return err
		}
		if !report.OK() {
			return errValidation
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
