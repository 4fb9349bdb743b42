// Package fileutil reads and writes the files the CLI produces, with error
// messages that name what the file is for.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors for path type mismatches.
var (
	ErrIsDir  = errors.New("a directory")
	ErrNotDir = errors.New("not a directory")
)

// PrepareOutputDir creates dir and its parents. label names the directory
// in errors, e.g. "output".
func PrepareOutputDir(dir, label string) error {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return fmt.Errorf("%s path is %w: %s", label, ErrNotDir, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s directory could not be created: %s (%w)", label, dir, err)
	}
	return nil
}

// WriteText writes text to path, replacing any existing file. It refuses
// to write over a directory.
func WriteText(path, text, label string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s path is %w: %s", label, ErrIsDir, path)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil { //#nosec G306
		return fmt.Errorf("%s file could not be written: %s (%w)", label, path, err)
	}
	return nil
}

// ReadText reads path as UTF-8, replacing invalid sequences with U+FFFD.
func ReadText(path, label string) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s path is %w: %s", label, ErrIsDir, path)
	}
	data, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return "", fmt.Errorf("%s file could not be read: %s (%w)", label, path, err)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// ToASCII drops every non-ASCII character.
func ToASCII(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			return strings.Map(func(r rune) rune {
				if r >= 0x80 {
					return -1
				}
				return r
			}, text)
		}
	}
	return text
}

// NotagsFile captures the tag-free intermediate text of one conversion
// into a file. Its Write method is a sanitize.Options.NotagsSink; the
// first write error is kept for Err.
type NotagsFile struct {
	Path  string
	ASCII bool
	err   error
}

// NewNotagsFile creates a capture for path. With ascii set, non-ASCII
// characters are dropped before writing.
func NewNotagsFile(path string, ascii bool) *NotagsFile {
	return &NotagsFile{Path: path, ASCII: ascii}
}

// Write stores text in the file.
func (f *NotagsFile) Write(text string) {
	if f.err != nil {
		return
	}
	if f.ASCII {
		text = ToASCII(text)
	}
	f.err = WriteText(f.Path, text, "dump notags")
}

// Err returns the first write error, if any.
func (f *NotagsFile) Err() error {
	return f.err
}
