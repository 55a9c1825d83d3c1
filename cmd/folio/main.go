// Command folio serves and maintains a folio site: it runs the web server,
// validates posts, writes the sitemap, scaffolds sites and posts, and
// generates placeholder cover images.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgFile string
	cfg     folio.SiteConfig
	logger  = content.NewLogger("folio")
)

// errValidation marks a command that already reported its failure.
var errValidation = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - a portfolio and blog engine for MDX posts",
	Long: `folio serves a portfolio site from a directory of MDX posts and a
projects catalog. Settings come from folio.yaml and FOLIO_* environment
variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code: 0 on
// success, 1 on any failure including posts that fail validation.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errValidation) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./folio.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func initializeConfig(cmd *cobra.Command) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger.SetLevel(log.DEBUG)
	}

	v := viper.New()

	v.SetDefault("name", "Folio")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("content_dir", "posts")
	v.SetDefault("public_dir", "public")
	v.SetDefault("projects_file", "projects.yaml")
	v.SetDefault("ext", content.DefaultExt)
	v.SetDefault("concurrency", 8)
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("watch", false)
	v.SetDefault("analytics_enabled", false)
	v.SetDefault("analytics_db", "data/analytics.db")
	v.SetDefault("admin_password", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
		logger.Debugf("no folio.yaml found, using defaults and environment")
	} else {
		logger.Debugf("using config file %s", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
