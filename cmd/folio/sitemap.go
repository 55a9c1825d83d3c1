package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/projects"
	"github.com/eringen/folio/sitemap"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := projects.Load(cfg.ProjectsFile)
		if err != nil {
			return err
		}
		entries, err := folio.NewSitemapGenerator(cfg, catalog, logger).Generate(cmd.Context())
		if err != nil {
			return err
		}
		out, err := sitemap.XML(entries)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" || path == "-" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write sitemap: %w", err)
		}
		logger.Infof("wrote %d entries to %s", len(entries), path)
		return nil
	},
}

func init() {
	sitemapCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(sitemapCmd)
}
