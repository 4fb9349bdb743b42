package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagetext/internal/output"
	"github.com/jmylchreest/pagetext/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("short") {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		}
		if f := viper.GetString("output"); f != "" {
			format, err := output.ParseFormat(f)
			if err != nil {
				return err
			}
			w, err := output.NewWriter(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			_ = w.Write(version.Get())
			return w.Close()
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print only the version number")
	versionCmd.Flags().StringP("output", "o", "", "print as json, jsonl or yaml")
}
