package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new site skeleton in dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := scaffold.NewSite(args[0], time.Now())
		if err != nil {
			return err
		}
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "  created %s\n", p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nDone! Next steps:\n\n  cd %s\n  folio serve\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
