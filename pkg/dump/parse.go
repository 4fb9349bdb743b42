package dump

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// MaxLineSize is the longest physical line the parser can hold. Lines over
// Limits.MaxBytes are skipped, but they still have to fit here.
const MaxLineSize = 256 << 20

// ParseFile parses the dump at path.
func ParseFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	return Parse(f, path, opts)
}

// Parse reads a dump from r. name identifies the input in errors and
// messages. Invalid UTF-8 is replaced with U+FFFD.
func Parse(r io.Reader, name string, opts Options) (*Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	sc.Split(scanLines)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return nil, fmt.Errorf("%w %s", ErrEmptyInput, name)
	}

	result := &Result{}
	stats := &result.Stats

	header := headerColumns(sc.Text())
	if !slices.Equal(header, ExpectedHeader) {
		if opts.StrictHeader {
			return nil, fmt.Errorf("%w: %s", ErrHeader, HeaderMismatchMessage(name, header))
		}
		stats.HeaderMismatch = true
		stats.HeaderColumns = header
	}

	v := newValidator()
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if opts.Limits.MaxLines > 0 && stats.ReadLines >= opts.Limits.MaxLines {
			stats.ReachedLimit = true
			break
		}
		stats.ReadLines++
		if opts.Limits.MaxBytes > 0 && len(line) > opts.Limits.MaxBytes {
			stats.SkippedOversized++
			continue
		}

		line = strings.ToValidUTF8(line, "\uFFFD")
		var parts []string
		if opts.CSV {
			parts = splitEscaped(line)
		} else {
			parts = strings.SplitN(line, "\t", len(ExpectedHeader))
		}

		if len(parts) != len(ExpectedHeader) {
			if opts.StrictColumns {
				return nil, fmt.Errorf("%w at line %d in %s: expected %d columns, got %d",
					ErrMalformedRow, lineNo, name, len(ExpectedHeader), len(parts))
			}
			stats.SkippedMalformed++
			continue
		}

		row := Row{
			ID:      parts[0],
			Title:   parts[1],
			Content: parts[2],
			Status:  parts[3],
			Date:    parts[4],
		}
		if !opts.IncludeContent {
			row.Content = ""
		}
		v.check(row, stats)
		result.Rows = append(result.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s at line %d: %w", name, lineNo+1, err)
	}

	return result, nil
}

func headerColumns(line string) []string {
	line = strings.TrimPrefix(line, "\ufeff")
	cols := strings.Split(line, "\t")
	for i, c := range cols {
		cols[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return cols
}

// scanLines is bufio.ScanLines extended to accept a lone CR as a line end.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// CR at the end of the buffer; need one more byte to tell CRLF apart.
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// splitEscaped splits a line on tabs, treating a backslash as an escape
// for the character after it. The backslash itself is dropped, so "\t"
// becomes a literal t and a backslash before a tab keeps the tab. A
// trailing lone backslash is kept.
func splitEscaped(line string) []string {
	var parts []string
	var sb strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			sb.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '\t':
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	if escaped {
		sb.WriteByte('\\')
	}
	return append(parts, sb.String())
}
