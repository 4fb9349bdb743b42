package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagetext/internal/fileutil"
	"github.com/jmylchreest/pagetext/internal/output"
	"github.com/jmylchreest/pagetext/pkg/cleaner"
	"github.com/jmylchreest/pagetext/pkg/cleaner/sanitize"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Convert a single HTML fragment",
	Long: `Convert one HTML fragment, read from a file or stdin, and print the
result. Conversion stats go to stderr.

Examples:
  pagetext clean page.html
  pagetext clean --format markdown -o page.md page.html
  pagetext clean --stats-only --json < page.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

// cleanStats is the --json stats document.
type cleanStats struct {
	Cleaner     string                  `json:"cleaner" yaml:"cleaner"`
	InputBytes  int                     `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int                     `json:"output_bytes" yaml:"output_bytes"`
	Warnings    []string                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Sanitize    sanitize.SanitizeCounts `json:"sanitize" yaml:"sanitize"`
	Filter      sanitize.FilterCounts   `json:"filter" yaml:"filter"`
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	addConvertFlags(cleanCmd)

	flags := cleanCmd.Flags()
	flags.StringP("output", "o", "", "write the result to this file (default: stdout)")
	flags.Bool("stats-only", false, "print stats without the converted content")
	flags.Bool("json", false, "print stats as JSON")
	flags.Bool("notags", false, "print the tag-free intermediate text instead of the result")
}

func runClean(cmd *cobra.Command, args []string) error {
	opts, err := sanitizeOptions()
	if err != nil {
		return err
	}

	input, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var notags string
	if viper.GetBool("notags") {
		opts.NotagsSink = func(s string) { notags = s }
	}
	sanitizer := sanitize.New(opts)
	result := sanitizer.Convert(input)

	var footer cleaner.Cleaner = cleaner.NewNoop()
	if !viper.GetBool("footer") {
		footer = cleaner.NewFooterStripper()
	}
	content, err := footer.Clean(result.Content)
	if err != nil {
		return err
	}
	if viper.GetBool("notags") {
		content = notags
	}
	if !opts.Raw && !opts.UTF8 {
		content = fileutil.ToASCII(content)
	}

	stats := cleanStats{
		Cleaner:     sanitizer.Name(),
		InputBytes:  result.InputBytes,
		OutputBytes: len(content),
		Warnings:    result.Warnings,
		Sanitize:    result.Sanitize,
		Filter:      result.Filter,
	}
	if err := printCleanStats(cmd.ErrOrStderr(), stats); err != nil {
		return err
	}

	if viper.GetBool("stats_only") {
		return nil
	}
	if path := viper.GetString("output"); path != "" {
		return fileutil.WriteText(path, content, "output")
	}
	_, err = io.WriteString(cmd.OutOrStdout(), content)
	return err
}

// readInput reads the fragment from the file argument or from in.
func readInput(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return fileutil.ReadText(args[0], "input")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func printCleanStats(w io.Writer, stats cleanStats) error {
	if viper.GetBool("quiet") && !viper.GetBool("stats_only") {
		return nil
	}
	if viper.GetBool("json") {
		jw := output.NewJSONWriter(w, true, "  ")
		_ = jw.Write(stats)
		return jw.Flush()
	}

	fmt.Fprintf(w, "Cleaner:  %s\n", stats.Cleaner)
	fmt.Fprintf(w, "Input:    %s\n", humanize.Bytes(uint64(stats.InputBytes)))
	fmt.Fprintf(w, "Output:   %s\n", humanize.Bytes(uint64(stats.OutputBytes)))
	if s := stats.Sanitize.String(); s != "" {
		fmt.Fprintf(w, "Sanitize: %s\n", s)
	}
	if f := stats.Filter.String(); f != "" {
		fmt.Fprintf(w, "Filter:   %s\n", f)
	}
	for _, warning := range stats.Warnings {
		fmt.Fprintf(w, "Warning:  %s\n", warning)
	}
	return nil
}
