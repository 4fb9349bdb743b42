package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/pagetext/internal/output"
	"github.com/jmylchreest/pagetext/pkg/dump"
	"github.com/jmylchreest/pagetext/pkg/focus"
)

const testDump = "id\tpost_title\tpost_content\tpost_status\tpost_date\n" +
	"1\tAbout\t<p>Old</p>\tdraft\t2023-01-01\n" +
	"2\tAbout\t<h2>About us</h2><p>We <b>build</b> things.</p><p>Resources</p><p>Links</p>\tpublish\t2024-01-01\n" +
	"3\tContact\t<ul><li>Email: <a href=\"mailto:hi@example.com\">hi</a></li>\tpublish\t2024-02-01\n" +
	"4\tBlog\t<p>Posts</p>\tpublish\t2024-03-01\n"

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestContentCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir, "db.out", testDump)
	list := writeFixture(t, dir, "pages.list", "About\nContact, Missing\n")
	outDir := filepath.Join(dir, "out")
	report := filepath.Join(dir, "report.json")

	stdout, err := execute(t, "content",
		"--input", input,
		"--pages", list,
		"--output-dir", outDir,
		"--notags",
		"--concurrency", "2",
		"--report", report,
		"--quiet",
	)
	if err != nil {
		t.Fatalf("content failed: %v", err)
	}

	about, err := os.ReadFile(filepath.Join(outDir, "About.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "## About us\n\nWe build things.\n"; string(about) != want {
		t.Errorf("About.txt = %q, want %q", about, want)
	}
	if _, err := os.Stat(filepath.Join(outDir, "Contact.txt")); err != nil {
		t.Errorf("expected Contact.txt: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "About_notags.txt")); err != nil {
		t.Errorf("expected About_notags.txt: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "Missing.txt")); !os.IsNotExist(err) {
		t.Errorf("expected no file for a missing page, got %v", err)
	}

	if !strings.Contains(stdout, "About.txt (2, exact)") || !strings.Contains(stdout, "Contact.txt (3, exact)") {
		t.Errorf("unexpected stdout %q", stdout)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	var reports []output.PageReport
	if err := json.Unmarshal(data, &reports); err != nil {
		t.Fatalf("report is not a JSON array: %v\n%s", err, data)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[0].Page != "About" || reports[0].ID != "2" || reports[2].Match != "none" {
		t.Errorf("unexpected reports %+v", reports)
	}
	wantWarnings := []string{
		"Malformed list structure: <ul> 1 != </ul> 0 in page 'Contact'",
		"Non-HTTP scheme links: 1 in page 'Contact'",
	}
	if !reflect.DeepEqual(reports[1].Warnings, wantWarnings) {
		t.Errorf("Contact warnings = %q, want %q", reports[1].Warnings, wantWarnings)
	}
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir, "db.out", testDump)
	list := writeFixture(t, dir, "pages.list", "Contact\n")

	stdout, err := execute(t, "list", "--input", input, "--pages", list, "--quiet")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := "Contact,3,publish,2024-02-01\n" +
		"About,1,draft,2023-01-01\n" +
		"About,2,publish,2024-01-01\n" +
		"Blog,4,publish,2024-03-01\n"
	if stdout != want {
		t.Errorf("list output = %q, want %q", stdout, want)
	}
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir, "page.html", `<h1>Hi</h1><p><a href="https://go.dev">Go</a></p>`)
	out := filepath.Join(dir, "page.md")

	if _, err := execute(t, "clean", "--format", "markdown", "--output", out, input); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "# Hi\n\n[Go](https://go.dev)\n"; string(data) != want {
		t.Errorf("clean output = %q, want %q", data, want)
	}
}

func TestParseByteLimit(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"1MB", 1000000, false},
		{"4MiB", 4 << 20, false},
		{"512", 512, false},
		{"lots", 0, true},
	}
	for _, tt := range tests {
		got, err := parseByteLimit(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseByteLimit(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseByteLimit(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTableDelimiter(t *testing.T) {
	for name, want := range map[string]string{"comma": ",", "TAB": "\t", ",": ","} {
		got, err := tableDelimiter(name)
		if err != nil || got != want {
			t.Errorf("tableDelimiter(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := tableDelimiter("pipe"); err == nil {
		t.Error("expected error for unknown delimiter")
	}
}

func TestParseWarnings(t *testing.T) {
	stats := dump.Stats{
		ReadLines:          10,
		SkippedMalformed:   2,
		SkippedOversized:   1,
		ReachedLimit:       true,
		HeaderMismatch:     true,
		HeaderColumns:      []string{"a", "b"},
		InvalidIDCount:     3,
		DuplicateIDCount:   1,
		UnknownStatusCount: 0,
		InvalidDateCount:   4,
	}

	strict := parseWarnings(stats, "db.out", dump.DefaultOptions())
	wantStrict := []string{
		"Oversized line count: 1 in db.out",
		"Invalid id count: 3",
		"Duplicate id count: 1",
		"Invalid date count: 4",
		"Line limit reached at line 10.",
	}
	if !reflect.DeepEqual(strict, wantStrict) {
		t.Errorf("strict warnings = %q, want %q", strict, wantStrict)
	}

	permissive := parseWarnings(stats, "db.out", dump.DefaultOptions().Permissive())
	if len(permissive) != len(wantStrict)+2 {
		t.Fatalf("expected malformed and header warnings too, got %q", permissive)
	}
	if permissive[1] != "Malformed row count: 2 in db.out" {
		t.Errorf("unexpected malformed warning %q", permissive[1])
	}
	if permissive[2] != dump.HeaderMismatchMessage("db.out", []string{"a", "b"}) {
		t.Errorf("unexpected header warning %q", permissive[2])
	}
}

var listRows = []dump.Row{
	{ID: "1", Title: "About", Status: "publish", Date: "2024-01-01"},
	{ID: "2", Title: "About Team", Status: "publish", Date: "2024-01-02"},
	{ID: "3", Title: "Blog", Status: "draft", Date: "2024-01-03"},
}

func TestBuildListing(t *testing.T) {
	entries := focus.Parse("Blog\nAbout T\nGone", false).Entries

	tests := []struct {
		name        string
		opts        listOptions
		wantIDs     []string
		wantMatches []string
		wantFocus   []string
	}{
		{
			name:        "listed pages first",
			opts:        listOptions{},
			wantIDs:     []string{"3", "1", "2"},
			wantMatches: []string{"exact", "", ""},
			wantFocus:   []string{"Blog", "", ""},
		},
		{
			name:        "only",
			opts:        listOptions{only: true},
			wantIDs:     []string{"3"},
			wantMatches: []string{"exact"},
			wantFocus:   []string{"Blog"},
		},
		{
			name:        "details with prefix",
			opts:        listOptions{details: true, usePrefix: true},
			wantIDs:     []string{"3", "2", "", "1"},
			wantMatches: []string{"exact", "prefix", "none", "none"},
			wantFocus:   []string{"Blog", "About T", "Gone", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, missing := buildListing(entries, listRows, tt.opts)
			var ids, matches, names []string
			for _, r := range rows {
				ids = append(ids, r.ID)
				matches = append(matches, r.Match)
				names = append(names, r.Focus)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %q, want %q", ids, tt.wantIDs)
			}
			if !reflect.DeepEqual(matches, tt.wantMatches) {
				t.Errorf("matches = %q, want %q", matches, tt.wantMatches)
			}
			if !reflect.DeepEqual(names, tt.wantFocus) {
				t.Errorf("focus = %q, want %q", names, tt.wantFocus)
			}
			if len(missing) == 0 || missing[len(missing)-1] != "Gone" {
				t.Errorf("expected Gone to be missing, got %q", missing)
			}
		})
	}
}

func TestFormatListing(t *testing.T) {
	rows := []listRow{
		{Title: "Hello, world", ID: "1", Status: "publish", Date: "2024-01-01", Match: "exact", Focus: "Hello"},
		{Title: `Say "hi"`, ID: "2", Status: "draft", Date: "2024-01-02"},
	}

	got, err := formatListing(rows, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "\"Hello, world\",1,publish,2024-01-01\n\"Say \"\"hi\"\"\",2,draft,2024-01-02\n"
	if got != want {
		t.Errorf("formatListing() = %q, want %q", got, want)
	}

	got, err = formatListing(rows[:1], true)
	if err != nil {
		t.Fatal(err)
	}
	if want := "\"Hello, world\",1,publish,2024-01-01,exact,Hello\n"; got != want {
		t.Errorf("formatListing(details) = %q, want %q", got, want)
	}
}

func TestResolveConcurrency(t *testing.T) {
	if got := resolveConcurrency(5); got != 5 {
		t.Errorf("explicit concurrency = %d, want 5", got)
	}
	got := resolveConcurrency(0)
	if got < 1 || got > 8 {
		t.Errorf("default concurrency %d outside 1..8", got)
	}
}

func TestWriteComparison(t *testing.T) {
	var buf bytes.Buffer
	writeComparison(&buf, "<p>Hello</p>", compareCleaners())
	out := buf.String()

	for _, name := range []string{"noop", "sanitize (text)", "sanitize (markdown)", "sanitize -> footer"} {
		if !strings.Contains(out, name) {
			t.Errorf("comparison missing %q:\n%s", name, out)
		}
	}
	if strings.Contains(out, "ERROR") {
		t.Errorf("unexpected cleaner error:\n%s", out)
	}
}

func TestWriteDumpRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rows")
	rows := []dump.Row{
		{ID: "1", Title: "About", Content: "<p>Old</p>", Status: "draft", Date: "2023-01-01"},
		{ID: "2", Title: "About/Team", Status: "publish", Date: "2024-01-01"},
		{ID: "2", Title: "About/Team", Status: "publish", Date: "2024-01-02"},
	}

	n, err := writeDumpRows(dir, rows)
	if err != nil {
		t.Fatalf("writeDumpRows() error = %v", err)
	}
	if n != len(rows) {
		t.Errorf("wrote %d files, want %d", n, len(rows))
	}

	for i, name := range []string{"1 About.yaml", "2 About-Team.yaml", "2 About-Team_1.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		var got dump.Row
		if err := yaml.Unmarshal(data, &got); err != nil {
			t.Fatalf("%s is not YAML: %v", name, err)
		}
		if got != rows[i] {
			t.Errorf("%s = %+v, want %+v", name, got, rows[i])
		}
	}

	file := writeFixture(t, t.TempDir(), "taken", "")
	if _, err := writeDumpRows(file, rows); err == nil || !strings.Contains(err.Error(), "dump rows path is not a directory") {
		t.Errorf("expected not-a-directory error, got %v", err)
	}
}
