package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/cover"
	"github.com/eringen/folio/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a post with complete front matter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, _ := cmd.Flags().GetStringSlice("tags")
		draft, _ := cmd.Flags().GetBool("draft")
		date, _ := cmd.Flags().GetString("date")
		noCover, _ := cmd.Flags().GetBool("no-cover")

		path, slug, err := scaffold.NewPost(scaffold.PostOptions{
			Title: args[0],
			Tags:  tags,
			Draft: draft,
			Date:  date,
			Dir:   cfg.ContentDir,
			Ext:   cfg.Ext,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)

		if noCover {
			return nil
		}
		img, err := writeCover(args[0], slug)
		if err != nil {
			return err
		}
		if img != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", img)
		}
		return nil
	},
}

// writeCover renders a placeholder cover unless one exists already.
func writeCover(title, slug string) (string, error) {
	dir := filepath.Join(cfg.PublicDir, filepath.FromSlash(cover.ImageDir))
	path := filepath.Join(dir, cover.FileName(slug))
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cover dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create cover: %w", err)
	}
	err = cover.Generate(f, title, cover.DefaultOptions())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", errors.Join(err, os.Remove(path))
	}
	return path, nil
}

func init() {
	newCmd.Flags().StringSliceP("tags", "t", nil, "comma-separated tags")
	newCmd.Flags().Bool("draft", false, "mark the post as a draft")
	newCmd.Flags().String("date", "", "publication date, YYYY-MM-DD (default today)")
	newCmd.Flags().Bool("no-cover", false, "skip the placeholder cover image")
	rootCmd.AddCommand(newCmd)
}
