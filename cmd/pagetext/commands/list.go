package commands

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagetext/internal/fileutil"
	"github.com/jmylchreest/pagetext/internal/logger"
	"github.com/jmylchreest/pagetext/pkg/dump"
	"github.com/jmylchreest/pagetext/pkg/focus"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages in the dump as CSV",
	Long: `List the pages in a posts dump as CSV rows of title,id,status,date.

Pages named in the pages list come first, in list order. Every other page
follows unless --only is given. With --details two columns are added: how
the row matched (exact, prefix, none) and the list name it matched.

Examples:
  # Everything, listed pages first
  pagetext list -i db.out -p pages.list

  # Only the listed pages, written to out/pages.csv
  pagetext list --only --output-dir out

  # Match details with prefix matching
  pagetext list --details`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	addDumpFlags(listCmd)

	flags := listCmd.Flags()
	flags.Bool("only", false, "only output pages named in the pages list")
	flags.Bool("details", false, "use prefix matching and add match,focus columns")
	flags.StringP("output-dir", "o", "", "write pages.csv to this directory instead of stdout")
	listCmd.MarkFlagsMutuallyExclusive("only", "details")
}

// listRow is one line of list output.
type listRow struct {
	Title  string
	ID     string
	Status string
	Date   string
	Match  string
	Focus  string
}

func runList(cmd *cobra.Command, args []string) error {
	only := viper.GetBool("only")
	details := viper.GetBool("details")
	if only && details {
		return errors.New("--only cannot be used with --details")
	}

	dumpOpts, err := dumpOptions(false)
	if err != nil {
		return err
	}
	usePrefix := resolveToggle(cmd, "prefix", "noprefix", details)
	caseSensitive := resolveToggle(cmd, "case", "nocase", !details)

	list, err := loadPages(caseSensitive)
	if err != nil {
		return err
	}

	inputPath := viper.GetString("input")
	parsed, err := parseDump(dumpOpts)
	if err != nil {
		return err
	}
	for _, w := range parseWarnings(parsed.Stats, inputPath, dumpOpts) {
		logger.Warn(w)
	}
	if only && len(list.Entries) == 0 {
		return errors.New("pages list must include at least one page name")
	}

	rows, missing := buildListing(list.Entries, parsed.Rows, listOptions{
		only:          only,
		details:       details,
		caseSensitive: caseSensitive,
		usePrefix:     usePrefix,
	})
	for _, name := range missing {
		logger.Warn(fmt.Sprintf("Missing page: %s", name))
	}

	text, err := formatListing(rows, details)
	if err != nil {
		return err
	}

	outputDir := viper.GetString("output_dir")
	if outputDir == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if err := fileutil.PrepareOutputDir(outputDir, "output"); err != nil {
		return err
	}
	path := filepath.Join(outputDir, "pages.csv")
	if err := fileutil.WriteText(path, text, "output"); err != nil {
		return err
	}
	logger.Info("wrote page list", "path", path, "rows", len(rows))
	return nil
}

type listOptions struct {
	only          bool
	details       bool
	caseSensitive bool
	usePrefix     bool
}

// buildListing orders the listed pages first, then the rest of the dump.
// It also returns the list names that matched no row.
func buildListing(entries []focus.Entry, rows []dump.Row, opts listOptions) ([]listRow, []string) {
	var out []listRow
	var missing []string
	used := make(map[string]bool)

	for _, m := range focus.MatchEntries(entries, rows, opts.caseSensitive, opts.usePrefix) {
		if m.Row != nil {
			out = append(out, newListRow(*m.Row, m.Label, m.Entry.Name))
			used[m.Row.ID] = true
			continue
		}
		missing = append(missing, m.Entry.Name)
		if opts.details {
			out = append(out, listRow{Match: focus.LabelNone, Focus: m.Entry.Name})
		}
	}

	if opts.only {
		return out, missing
	}
	for _, row := range rows {
		if used[row.ID] {
			continue
		}
		if opts.details {
			label, name := focus.MatchLabel(row, entries, opts.caseSensitive, opts.usePrefix)
			out = append(out, newListRow(row, label, name))
		} else {
			out = append(out, newListRow(row, "", ""))
		}
	}
	return out, missing
}

func newListRow(row dump.Row, match, name string) listRow {
	return listRow{
		Title:  row.Title,
		ID:     row.ID,
		Status: row.Status,
		Date:   row.Date,
		Match:  match,
		Focus:  name,
	}
}

// formatListing renders rows as CSV with LF line endings.
func formatListing(rows []listRow, details bool) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, r := range rows {
		record := []string{r.Title, r.ID, r.Status, r.Date}
		if details {
			record = append(record, r.Match, r.Focus)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("format list: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("format list: %w", err)
	}
	return buf.String(), nil
}
