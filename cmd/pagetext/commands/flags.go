package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagetext/internal/fileutil"
	"github.com/jmylchreest/pagetext/internal/logger"
	"github.com/jmylchreest/pagetext/internal/output"
	"github.com/jmylchreest/pagetext/pkg/cleaner/sanitize"
	"github.com/jmylchreest/pagetext/pkg/dump"
	"github.com/jmylchreest/pagetext/pkg/focus"
)

// addDumpFlags registers the flags shared by commands that read a dump and
// a pages list.
func addDumpFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("input", "i", "db.out", "tab-separated posts dump")
	flags.StringP("pages", "p", "pages.list", "pages list file (names separated by commas or newlines)")
	flags.Int("lines", 1000, "max dump lines to read (0=unlimited)")
	flags.String("bytes", "1MB", "max bytes per dump line (e.g. 512KB, 4MiB, 0=unlimited)")
	flags.Bool("csv", false, "parse dump rows with backslash escapes instead of a plain tab split")
	flags.Bool("permit", false, "shorthand for --permit-header --permit-columns")
	flags.Bool("permit-header", false, "warn instead of failing on an unexpected header")
	flags.Bool("permit-columns", false, "skip rows with the wrong column count instead of failing")
	flags.String("dump-rows", "", "write every parsed row to this directory as a YAML file")

	flags.Bool("prefix", false, "enable prefix matching")
	flags.Bool("noprefix", false, "disable prefix matching")
	flags.Bool("case", false, "use case-sensitive matching")
	flags.Bool("nocase", false, "use case-insensitive matching")
	cmd.MarkFlagsMutuallyExclusive("prefix", "noprefix")
	cmd.MarkFlagsMutuallyExclusive("case", "nocase")
}

// addConvertFlags registers the conversion and character filter flags.
func addConvertFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("format", "text", "output format: text, markdown")
	flags.String("table-delim", "comma", "table cell delimiter in text output: comma, tab")
	flags.Bool("footer", false, "keep footer sections (Resources/Community) instead of stripping them")
	flags.String("replace", "", "character emitted once per run of filtered characters")
	flags.Bool("utf8", false, "keep non-ASCII characters")
	flags.Bool("strip-tabs", false, "filter tab characters")
	flags.Bool("strip-newlines", false, "filter newline characters")
	flags.Bool("raw", false, "skip the character filter and write UTF-8")
}

// resolveToggle reads a pair of on/off flags. An explicit flag wins, then a
// config or environment value for on, then def.
func resolveToggle(cmd *cobra.Command, on, off string, def bool) bool {
	switch {
	case cmd.Flags().Changed(off):
		return false
	case cmd.Flags().Changed(on):
		return true
	case viper.IsSet(off) && viper.GetBool(off):
		return false
	case viper.IsSet(on):
		return viper.GetBool(on)
	}
	return def
}

// parseByteLimit parses a --bytes value. Empty and "0" mean unlimited.
func parseByteLimit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("--bytes must be 0 or a positive size: %w", err)
	}
	return int(n), nil
}

// tableDelimiter maps the --table-delim name to the delimiter.
func tableDelimiter(name string) (string, error) {
	switch strings.ToLower(name) {
	case "comma", ",":
		return ",", nil
	case "tab", "\t":
		return "\t", nil
	}
	return "", fmt.Errorf("unknown table delimiter: %s (use 'comma' or 'tab')", name)
}

// dumpOptions builds parser options from the dump flags.
func dumpOptions(includeContent bool) (dump.Options, error) {
	opts := dump.DefaultOptions()
	opts.IncludeContent = includeContent

	lines := viper.GetInt("lines")
	if lines < 0 {
		return opts, errors.New("--lines must be 0 or a positive integer")
	}
	maxBytes, err := parseByteLimit(viper.GetString("bytes"))
	if err != nil {
		return opts, err
	}
	opts.Limits = dump.Limits{MaxLines: lines, MaxBytes: maxBytes}
	opts.CSV = viper.GetBool("csv")
	opts.StrictHeader = !viper.GetBool("permit_header")
	opts.StrictColumns = !viper.GetBool("permit_columns")
	if viper.GetBool("permit") {
		opts = opts.Permissive()
	}
	return opts, nil
}

// sanitizeOptions builds and validates conversion options from the
// convert flags.
func sanitizeOptions() (*sanitize.Options, error) {
	delim, err := tableDelimiter(viper.GetString("table_delim"))
	if err != nil {
		return nil, err
	}
	opts := &sanitize.Options{
		Format:        sanitize.Format(strings.ToLower(viper.GetString("format"))),
		TableDelim:    delim,
		Replace:       viper.GetString("replace"),
		StripTabs:     viper.GetBool("strip_tabs"),
		StripNewlines: viper.GetBool("strip_newlines"),
		UTF8:          viper.GetBool("utf8"),
		Raw:           viper.GetBool("raw"),
	}
	opts.Merge(sanitize.DefaultOptions())
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadPages reads the pages list named by --pages.
func loadPages(caseSensitive bool) (*focus.LoadResult, error) {
	path := viper.GetString("pages")
	list, err := focus.Load(path, caseSensitive)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("pages list file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// parseDump reads the dump named by --input and writes the rows out when
// --dump-rows is set.
func parseDump(opts dump.Options) (*dump.Result, error) {
	path := viper.GetString("input")
	result, err := dump.ParseFile(path, opts)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("input file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	if dir := viper.GetString("dump_rows"); dir != "" {
		n, err := writeDumpRows(dir, result.Rows)
		if err != nil {
			return nil, err
		}
		logger.Debug("dump rows written", "dir", dir, "files", n)
	}
	return result, nil
}

// writeDumpRows writes each row to dir as "<id> <title>.yaml" and returns
// the number of files written.
func writeDumpRows(dir string, rows []dump.Row) (int, error) {
	if err := fileutil.PrepareOutputDir(dir, "dump rows"); err != nil {
		return 0, err
	}
	existing := make(map[string]bool, len(rows))
	for i := range rows {
		var buf bytes.Buffer
		w := output.NewYAMLWriter(&buf)
		if err := w.Write(rows[i]); err != nil {
			return i, err
		}
		if err := w.Close(); err != nil {
			return i, fmt.Errorf("dump row %s: %w", rows[i].ID, err)
		}
		name := fileutil.SafeFilename(rows[i].ID+" "+rows[i].Title, ".yaml", existing)
		existing[name] = true
		if err := fileutil.WriteText(filepath.Join(dir, name), buf.String(), "dump row"); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

// parseWarnings returns the warnings worth reporting for a parsed dump.
// Skipped rows and header mismatches are only reachable in permissive
// mode; strict mode fails on them instead.
func parseWarnings(stats dump.Stats, path string, opts dump.Options) []string {
	var warnings []string
	count := func(label string, n int, suffix string) {
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: %d%s", label, n, suffix))
		}
	}

	in := " in " + path
	count("Oversized line count", stats.SkippedOversized, in)
	if !opts.StrictColumns {
		count("Malformed row count", stats.SkippedMalformed, in)
	}
	if !opts.StrictHeader && stats.HeaderMismatch {
		warnings = append(warnings, dump.HeaderMismatchMessage(path, stats.HeaderColumns))
	}
	count("Invalid id count", stats.InvalidIDCount, "")
	count("Duplicate id count", stats.DuplicateIDCount, "")
	count("Unknown status count", stats.UnknownStatusCount, "")
	count("Invalid date count", stats.InvalidDateCount, "")
	if stats.ReachedLimit {
		warnings = append(warnings, fmt.Sprintf("Line limit reached at line %d.", stats.ReadLines))
	}
	return warnings
}
