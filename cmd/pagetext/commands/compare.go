package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/pagetext/pkg/cleaner"
	"github.com/jmylchreest/pagetext/pkg/cleaner/sanitize"
)

var compareCmd = &cobra.Command{
	Use:   "compare [file]",
	Short: "Compare the available cleaners on one fragment",
	Long: `Run every available cleaner on the same HTML fragment and print the
output size, reduction and time of each.

The html-to-markdown reference cleaner is only listed in binaries built
with -tags markdown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// namedCleaner is one row of the comparison.
type namedCleaner struct {
	name    string
	cleaner cleaner.Cleaner
}

// compareCleaners returns the cleaners compared by the compare command.
func compareCleaners() []namedCleaner {
	text := sanitize.DefaultOptions()
	markdown := sanitize.DefaultOptions()
	markdown.Format = sanitize.FormatMarkdown
	utf8 := sanitize.DefaultOptions()
	utf8.UTF8 = true

	cleaners := []namedCleaner{
		{"noop", cleaner.NewNoop()},
		{"sanitize (text)", sanitize.New(text)},
		{"sanitize (text, utf8)", sanitize.New(utf8)},
		{"sanitize (markdown)", sanitize.New(markdown)},
		// Chains
		{"sanitize -> footer", cleaner.NewChain(
			sanitize.New(text),
			cleaner.NewFooterStripper(),
		)},
		{"sanitize md -> footer", cleaner.NewChain(
			sanitize.New(markdown),
			cleaner.NewFooterStripper(),
		)},
	}
	if md := cleaner.NewMarkdown(); md.IsAvailable() {
		cleaners = append(cleaners, namedCleaner{"html-to-markdown", md})
	}
	return cleaners
}

func runCompare(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	writeComparison(cmd.OutOrStdout(), input, compareCleaners())
	return nil
}

func writeComparison(w io.Writer, input string, cleaners []namedCleaner) {
	fmt.Fprintf(w, "Input: %s\n\n", humanize.Bytes(uint64(len(input))))
	fmt.Fprintf(w, "%-25s %10s %8s %10s\n", "Cleaner", "Output", "Reduce%", "Time")
	fmt.Fprintf(w, "%-25s %10s %8s %10s\n", "-------", "------", "-------", "----")

	for _, c := range cleaners {
		start := time.Now()
		out, err := c.cleaner.Clean(input)
		duration := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "%-25s %10s %8s %10v (error: %v)\n",
				c.name, "ERROR", "-", duration.Round(time.Microsecond), err)
			continue
		}

		reduction := 0.0
		if len(input) > 0 {
			reduction = float64(len(input)-len(out)) / float64(len(input)) * 100
		}
		fmt.Fprintf(w, "%-25s %10s %7.1f%% %10v\n",
			c.name, humanize.Bytes(uint64(len(out))), reduction, duration.Round(time.Microsecond))
	}
}
