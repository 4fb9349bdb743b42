// Package dump reads CMS post exports written as tab-separated text, one
// post per line, in the layout produced by a MySQL batch query:
//
//	id	post_title	post_content	post_status	post_date
//
// Content keeps the exporter's backslash escapes (\n, \t, \r); decoding
// them is left to the sanitizer.
package dump

import (
	"errors"
	"fmt"
	"strings"
)

// ExpectedHeader is the column layout every dump must start with.
var ExpectedHeader = []string{"id", "post_title", "post_content", "post_status", "post_date"}

// Sentinel errors for the failures a caller may want to branch on.
var (
	ErrEmptyInput   = errors.New("empty input file")
	ErrHeader       = errors.New("header error")
	ErrMalformedRow = errors.New("malformed row")
)

// Row is one post from the dump.
type Row struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
	Status  string `json:"status" yaml:"status"`
	Date    string `json:"date" yaml:"date"`
}

// Limits bounds how much of a dump is read. Zero means unlimited.
type Limits struct {
	// MaxLines stops parsing after this many non-empty data lines.
	MaxLines int `json:"max_lines" yaml:"max_lines"`
	// MaxBytes skips data lines longer than this many bytes.
	MaxBytes int `json:"max_bytes" yaml:"max_bytes"`
}

// Options configures a parse.
type Options struct {
	Limits Limits

	// StrictHeader fails on a header other than ExpectedHeader. Otherwise
	// the mismatch is recorded in Stats and parsing continues.
	StrictHeader bool

	// StrictColumns fails on a row without exactly five columns. Otherwise
	// the row is skipped and counted.
	StrictColumns bool

	// CSV splits rows honouring backslash escapes, so an escaped tab is
	// part of a column instead of a separator.
	CSV bool

	// IncludeContent keeps post bodies. Listing pages does not need them.
	IncludeContent bool
}

// DefaultOptions returns strict options that keep content.
func DefaultOptions() Options {
	return Options{
		StrictHeader:   true,
		StrictColumns:  true,
		IncludeContent: true,
	}
}

// Permissive relaxes both header and column checks.
func (o Options) Permissive() Options {
	o.StrictHeader = false
	o.StrictColumns = false
	return o
}

// Stats describes what happened while parsing.
type Stats struct {
	ReadLines        int  `json:"read_lines" yaml:"read_lines"`
	SkippedMalformed int  `json:"skipped_malformed" yaml:"skipped_malformed"`
	SkippedOversized int  `json:"skipped_oversized" yaml:"skipped_oversized"`
	ReachedLimit     bool `json:"reached_limit" yaml:"reached_limit"`

	HeaderMismatch bool     `json:"header_mismatch" yaml:"header_mismatch"`
	HeaderColumns  []string `json:"header_columns,omitempty" yaml:"header_columns,omitempty"`

	InvalidIDCount     int `json:"invalid_id_count" yaml:"invalid_id_count"`
	DuplicateIDCount   int `json:"duplicate_id_count" yaml:"duplicate_id_count"`
	UnknownStatusCount int `json:"unknown_status_count" yaml:"unknown_status_count"`
	InvalidDateCount   int `json:"invalid_date_count" yaml:"invalid_date_count"`
}

// Result is a parsed dump.
type Result struct {
	Rows  []Row
	Stats Stats
}

// HeaderMismatchMessage describes a header that does not match
// ExpectedHeader.
func HeaderMismatchMessage(name string, columns []string) string {
	return fmt.Sprintf("unexpected header columns in %s: got [%s], expected [%s]",
		name, strings.Join(columns, " "), strings.Join(ExpectedHeader, " "))
}
