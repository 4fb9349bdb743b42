// Package commands implements the CLI commands for pagetext.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagetext/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pagetext",
	Short: "Extract CMS pages from a database dump as plain text or Markdown",
	Long: `Pagetext reads a tab-separated export of a CMS posts table, picks the
pages named in a pages list, and writes each one as a clean text or
Markdown file.

Examples:
  # Write every page named in pages.list to ./out as text
  pagetext content --input db.out --pages pages.list --output-dir out

  # Markdown output, keeping the site footer
  pagetext content --format markdown --footer

  # List the pages in the dump with match details
  pagetext list --details

  # Convert a single fragment from stdin
  echo '<p>Hello <b>world</b></p>' | pagetext clean --format markdown`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd)
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.pagetext.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".pagetext")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. PAGETEXT_FORMAT=markdown
	viper.SetEnvPrefix("PAGETEXT")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// bindFlags binds the flags of the running command to viper keys, with
// dashes turned into underscores, so a config file or PAGETEXT_* variable
// can supply any flag the user did not set.
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
