package dump

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const header = "id\tpost_title\tpost_content\tpost_status\tpost_date\n"

func parse(t *testing.T, input string, opts Options) *Result {
	t.Helper()
	r, err := Parse(strings.NewReader(input), "db.out", opts)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return r
}

func TestParse_Rows(t *testing.T) {
	input := header +
		"1\tHome\t<p>Welcome</p>\tpublish\t2024-01-02 03:04:05\n" +
		"\n" +
		"2\tAbout\tA\\nB\tdraft\t2024-02-01\n"

	r := parse(t, input, DefaultOptions())

	want := []Row{
		{ID: "1", Title: "Home", Content: "<p>Welcome</p>", Status: "publish", Date: "2024-01-02 03:04:05"},
		{ID: "2", Title: "About", Content: `A\nB`, Status: "draft", Date: "2024-02-01"},
	}
	if !reflect.DeepEqual(r.Rows, want) {
		t.Errorf("Rows = %+v, want %+v", r.Rows, want)
	}
	if r.Stats.ReadLines != 2 {
		t.Errorf("ReadLines = %d, want 2", r.Stats.ReadLines)
	}
}

func TestParse_LineEndings(t *testing.T) {
	for name, nl := range map[string]string{"lf": "\n", "crlf": "\r\n", "cr": "\r"} {
		t.Run(name, func(t *testing.T) {
			input := strings.ReplaceAll(header, "\n", nl) +
				"1\tA\tx\tpublish\t2024-01-01" + nl +
				"2\tB\ty\tpublish\t2024-01-01"
			r := parse(t, input, DefaultOptions())
			if len(r.Rows) != 2 {
				t.Fatalf("expected 2 rows, got %d", len(r.Rows))
			}
			if r.Rows[1].Date != "2024-01-01" {
				t.Errorf("unexpected trailing characters in %q", r.Rows[1].Date)
			}
		})
	}
}

func TestParse_FifthColumnKeepsTabs(t *testing.T) {
	r := parse(t, header+"1\tA\tx\tpublish\t2024-01-01\textra\n", DefaultOptions().Permissive())
	if len(r.Rows) != 1 || r.Rows[0].Date != "2024-01-01\textra" {
		t.Errorf("expected the last column to absorb extra tabs, got %+v", r.Rows)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "db.out", DefaultOptions())
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "db.out") {
		t.Errorf("expected error to name the input, got %q", err.Error())
	}
}

func TestParse_Header(t *testing.T) {
	t.Run("case and spaces are ignored", func(t *testing.T) {
		r := parse(t, " ID \tPost_Title\tpost_content\tPOST_STATUS\tpost_date\n", DefaultOptions())
		if r.Stats.HeaderMismatch {
			t.Error("expected header to match")
		}
	})

	t.Run("byte order mark is ignored", func(t *testing.T) {
		r := parse(t, "\ufeff"+header, DefaultOptions())
		if r.Stats.HeaderMismatch {
			t.Error("expected header to match")
		}
	})

	t.Run("strict mismatch fails", func(t *testing.T) {
		_, err := Parse(strings.NewReader("id\ttitle\n"), "db.out", DefaultOptions())
		if !errors.Is(err, ErrHeader) {
			t.Fatalf("expected ErrHeader, got %v", err)
		}
		if !strings.Contains(err.Error(), "header error: unexpected header columns in db.out") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("permissive mismatch is recorded", func(t *testing.T) {
		r := parse(t, "id\ttitle\n1\tA\tx\tpublish\t2024-01-01\n", DefaultOptions().Permissive())
		if !r.Stats.HeaderMismatch {
			t.Error("expected HeaderMismatch")
		}
		if !reflect.DeepEqual(r.Stats.HeaderColumns, []string{"id", "title"}) {
			t.Errorf("HeaderColumns = %q", r.Stats.HeaderColumns)
		}
		if len(r.Rows) != 1 {
			t.Errorf("expected parsing to continue, got %d rows", len(r.Rows))
		}
	})
}

func TestParse_MalformedRows(t *testing.T) {
	input := header + "1\tA\tx\tpublish\t2024-01-01\n" + "2\tB\tonly three\n"

	t.Run("strict", func(t *testing.T) {
		_, err := Parse(strings.NewReader(input), "db.out", DefaultOptions())
		if !errors.Is(err, ErrMalformedRow) {
			t.Fatalf("expected ErrMalformedRow, got %v", err)
		}
		if !strings.Contains(err.Error(), "at line 3 in db.out") {
			t.Errorf("expected line number in %q", err.Error())
		}
	})

	t.Run("permissive", func(t *testing.T) {
		opts := DefaultOptions()
		opts.StrictColumns = false
		r := parse(t, input, opts)
		if len(r.Rows) != 1 || r.Stats.SkippedMalformed != 1 {
			t.Errorf("expected 1 row and 1 skipped, got %d and %d", len(r.Rows), r.Stats.SkippedMalformed)
		}
	})
}

func TestParse_Limits(t *testing.T) {
	input := header +
		"1\tA\tshort\tpublish\t2024-01-01\n" +
		"2\tB\t" + strings.Repeat("x", 100) + "\tpublish\t2024-01-01\n" +
		"3\tC\tshort\tpublish\t2024-01-01\n"

	t.Run("max lines", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Limits.MaxLines = 2
		r := parse(t, input, opts)
		if len(r.Rows) != 2 || !r.Stats.ReachedLimit || r.Stats.ReadLines != 2 {
			t.Errorf("unexpected result: %d rows, stats %+v", len(r.Rows), r.Stats)
		}
	})

	t.Run("limit not reached when input ends", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Limits.MaxLines = 3
		r := parse(t, input, opts)
		if r.Stats.ReachedLimit {
			t.Error("expected ReachedLimit to stay false")
		}
	})

	t.Run("max bytes", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Limits.MaxBytes = 50
		r := parse(t, input, opts)
		if len(r.Rows) != 2 || r.Stats.SkippedOversized != 1 {
			t.Errorf("unexpected result: %d rows, stats %+v", len(r.Rows), r.Stats)
		}
		if r.Stats.ReadLines != 3 {
			t.Errorf("oversized lines still count as read, got %d", r.Stats.ReadLines)
		}
	})
}

func TestParse_CSV(t *testing.T) {
	input := header + "1\tA\tleft\\\tright \\n\\\\\tpublish\t2024-01-01\n"
	opts := DefaultOptions()
	opts.CSV = true
	r := parse(t, input, opts)
	if len(r.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(r.Rows))
	}
	if got := r.Rows[0].Content; got != "left\tright n\\" {
		t.Errorf("Content = %q", got)
	}
}

func TestParse_WithoutContent(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeContent = false
	r := parse(t, header+"1\tA\t<p>big</p>\tpublish\t2024-01-01\n", opts)
	if r.Rows[0].Content != "" {
		t.Errorf("expected empty content, got %q", r.Rows[0].Content)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	r := parse(t, header+"1\tA\xff\tx\tpublish\t2024-01-01\n", DefaultOptions())
	if r.Rows[0].Title != "A\uFFFD" {
		t.Errorf("Title = %q", r.Rows[0].Title)
	}
}

func TestParse_ValidationCounters(t *testing.T) {
	input := header +
		"1\tA\tx\tpublish\t2024-01-01 10:00:00\n" +
		"1\tB\tx\tPublish\t2024-01-01\n" +
		"x7\tC\tx\tunknown\t0000-00-00 00:00:00\n" +
		"\tD\tx\tauto-draft\tyesterday\n"

	r := parse(t, input, DefaultOptions())
	s := r.Stats
	if s.InvalidIDCount != 2 {
		t.Errorf("InvalidIDCount = %d, want 2", s.InvalidIDCount)
	}
	if s.DuplicateIDCount != 1 {
		t.Errorf("DuplicateIDCount = %d, want 1", s.DuplicateIDCount)
	}
	if s.UnknownStatusCount != 1 {
		t.Errorf("UnknownStatusCount = %d, want 1", s.UnknownStatusCount)
	}
	if s.InvalidDateCount != 2 {
		t.Errorf("InvalidDateCount = %d, want 2", s.InvalidDateCount)
	}
	if len(r.Rows) != 4 {
		t.Errorf("validation must not drop rows, got %d", len(r.Rows))
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.out")
	if err := os.WriteFile(path, []byte(header+"1\tA\tx\tpublish\t2024-01-01\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := ParseFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(r.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(r.Rows))
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.out"), DefaultOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestScanLines_CRAtBufferEnd(t *testing.T) {
	adv, tok, err := scanLines([]byte("abc\r"), false)
	if adv != 0 || tok != nil || err != nil {
		t.Errorf("expected a request for more data, got %d %q %v", adv, tok, err)
	}
	adv, tok, _ = scanLines([]byte("abc\r"), true)
	if adv != 4 || string(tok) != "abc" {
		t.Errorf("expected final CR line, got %d %q", adv, tok)
	}
}
