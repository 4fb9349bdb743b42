package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagetext/internal/fileutil"
	"github.com/jmylchreest/pagetext/internal/logger"
	"github.com/jmylchreest/pagetext/internal/output"
	"github.com/jmylchreest/pagetext/pkg/focus"
	"github.com/jmylchreest/pagetext/pkg/pages"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Write the pages named in a pages list as text or Markdown files",
	Long: `Extract page content from a tab-separated posts dump and write one
file per page.

Each name in the pages list is matched against post titles, exactly by
default or by prefix with --prefix. When several posts share a title the
published one wins, then the most recent. Output files are named after
the page and end in .txt or .md.

Examples:
  # Text output into ./out
  pagetext content -i db.out -p pages.list --output-dir out

  # Markdown, case-insensitive prefix matching, keep UTF-8
  pagetext content --format markdown --prefix --nocase --utf8

  # Also write the intermediate tag-free text and a JSON report
  pagetext content --notags --report report.json`,
	RunE: runContent,
}

func init() {
	rootCmd.AddCommand(contentCmd)

	addDumpFlags(contentCmd)
	addConvertFlags(contentCmd)

	flags := contentCmd.Flags()
	flags.StringP("output-dir", "o", ".", "directory for page files")
	flags.Bool("notags", false, "also write the tag-free intermediate text to <page>_notags.txt")
	flags.IntP("concurrency", "c", 0, "pages converted at once (0=half the CPUs, at most 8)")
	flags.String("report", "", "write a per-page report to this file (- for stdout)")
	flags.String("report-format", "json", "report format: json, jsonl, yaml")
}

func runContent(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("content command starting")

	dumpOpts, err := dumpOptions(true)
	if err != nil {
		return err
	}
	sanitizeOpts, err := sanitizeOptions()
	if err != nil {
		return err
	}
	usePrefix := resolveToggle(cmd, "prefix", "noprefix", false)
	caseSensitive := resolveToggle(cmd, "case", "nocase", true)
	logger.Debug("matching", "prefix", usePrefix, "case_sensitive", caseSensitive)

	list, err := loadPages(caseSensitive)
	if err != nil {
		return err
	}
	for _, name := range list.Duplicates {
		logger.Warn(fmt.Sprintf("Duplicate page name: %s", name))
	}

	inputPath := viper.GetString("input")
	parsed, err := parseDump(dumpOpts)
	if err != nil {
		return err
	}
	for _, w := range parseWarnings(parsed.Stats, inputPath, dumpOpts) {
		logger.Warn(w)
	}
	logger.Debug("dump parsed", "rows", len(parsed.Rows), "lines", parsed.Stats.ReadLines)

	if len(list.Entries) == 0 {
		return errors.New("pages list must include at least one page name")
	}

	outputDir := viper.GetString("output_dir")
	if err := fileutil.PrepareOutputDir(outputDir, "output"); err != nil {
		return err
	}

	converter, err := pages.New(
		pages.WithSanitizeOptions(*sanitizeOpts),
		pages.WithFooter(viper.GetBool("footer")),
		pages.WithNotags(viper.GetBool("notags")),
	)
	if err != nil {
		return err
	}

	reports, closeReports, err := openReportWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	matches := focus.MatchEntries(list.Entries, parsed.Rows, caseSensitive, usePrefix)
	concurrency := resolveConcurrency(viper.GetInt("concurrency"))
	logger.Debug("converting pages", "pages", len(matches), "concurrency", concurrency)
	results := pages.Collect(converter.ConvertMany(ctx, matches, concurrency), len(matches))

	w := &pageWriter{
		dir:      outputDir,
		ext:      sanitizeOpts.Format.Extension(),
		format:   string(sanitizeOpts.Format),
		ascii:    !sanitizeOpts.Raw && !sanitizeOpts.UTF8,
		notags:   viper.GetBool("notags"),
		out:      cmd.OutOrStdout(),
		existing: make(map[string]bool),
	}

	var summary output.Summary
	for _, r := range results {
		report := w.write(r)
		summary.Add(report)
		if reports != nil {
			if err := reports.Write(report); err != nil {
				_ = closeReports()
				return fmt.Errorf("write report: %w", err)
			}
		}
	}
	// Close flushes buffered reports.
	if err := closeReports(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("content complete",
		"pages", summary.Pages,
		"written", summary.Written,
		"missing", summary.Missing,
		"failed", summary.Failed,
		"warnings", summary.Warnings,
		"size", humanize.Bytes(uint64(summary.Bytes)))

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d pages failed", summary.Failed, summary.Pages)
	}
	return nil
}

// pageWriter writes converted pages to the output directory in list order.
type pageWriter struct {
	dir      string
	ext      string
	format   string
	ascii    bool
	notags   bool
	out      io.Writer
	existing map[string]bool
}

// write stores one result and returns its report. Failures are logged and
// recorded in the report, not returned.
func (w *pageWriter) write(r *pages.Result) output.PageReport {
	report := output.PageReport{
		Page:     r.Page,
		Match:    r.Label,
		Format:   w.format,
		Warnings: r.Warnings(),
		Sanitize: r.Sanitize,
		Filter:   r.Filter,
	}
	for _, msg := range report.Warnings {
		logger.Warn(msg)
	}
	if r.Row != nil {
		report.ID = r.Row.ID
	}
	if r.Missing() {
		return report
	}
	if r.Error != nil {
		return w.fail(report, r.Error)
	}

	if w.notags {
		name := fileutil.SafeFilename(r.Page, "_notags.txt", w.existing)
		w.existing[name] = true
		nf := fileutil.NewNotagsFile(filepath.Join(w.dir, name), w.ascii)
		nf.Write(r.Notags)
		if err := nf.Err(); err != nil {
			return w.fail(report, err)
		}
	}

	content := r.Content
	if w.ascii {
		content = fileutil.ToASCII(content)
	}
	name := fileutil.SafeFilename(r.Page, w.ext, w.existing)
	w.existing[name] = true
	path := filepath.Join(w.dir, name)
	if err := fileutil.WriteText(path, content, "output"); err != nil {
		return w.fail(report, err)
	}
	report.Path = path
	report.Bytes = len(content)

	fmt.Fprintf(w.out, "Wrote %s (%s, %s)\n", path, report.ID, r.Label)
	if s, f := r.Sanitize.String(), r.Filter.String(); s != "" || f != "" {
		logger.Info("page counts", "page", r.Page, "sanitize", s, "filter", f)
	}
	return report
}

func (w *pageWriter) fail(report output.PageReport, err error) output.PageReport {
	logger.Error("page failed", "page", report.Page, "error", err)
	report.Error = err.Error()
	return report
}

// openReportWriter opens the --report destination. It returns a nil
// writer when no report was requested. The returned func flushes and
// closes the writer.
func openReportWriter(stdout io.Writer) (output.Writer, func() error, error) {
	path := viper.GetString("report")
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	format, err := output.ParseFormat(viper.GetString("report_format"))
	if err != nil {
		return nil, nil, err
	}

	dest := stdout
	closeFile := func() {}
	if path != "-" {
		f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified report file
		if err != nil {
			return nil, nil, fmt.Errorf("create report: %w", err)
		}
		dest = f
		closeFile = func() { _ = f.Close() }
	}

	writer, err := output.NewWriter(dest, format, output.WithPretty(true))
	if err != nil {
		closeFile()
		return nil, nil, err
	}
	return writer, func() error {
		defer closeFile()
		return writer.Close()
	}, nil
}

// resolveConcurrency returns n when positive, otherwise half of GOMAXPROCS
// clamped to 1..8.
func resolveConcurrency(n int) int {
	if n > 0 {
		return n
	}
	n = runtime.GOMAXPROCS(0) / 2
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
