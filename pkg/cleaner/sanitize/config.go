// Package sanitize converts HTML fragments taken from CMS database exports
// into plain text or Markdown. Every transformation it applies is counted so
// callers can audit what was removed or rewritten.
package sanitize

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Format specifies the output format of the sanitizer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// Extension returns the file extension conventionally used for the format.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}

// DefaultBlockedSchemes lists URL schemes that are never rendered verbatim.
var DefaultBlockedSchemes = []string{
	"data",
	"javascript",
	"vbscript",
	"file",
	"blob",
	"about",
	"chrome",
	"chrome-extension",
	"filesystem",
	"moz-extension",
}

// Options configures a conversion.
type Options struct {
	// Format selects text or markdown output.
	Format Format `json:"format" validate:"required,oneof=text markdown"`

	// TableDelim is inserted between table cells in text mode ("," or "\t").
	TableDelim string `json:"table_delim" validate:"tabledelim"`

	// Replace is emitted once for each run of filtered characters.
	// Empty means filtered characters are dropped silently.
	Replace string `json:"replace" validate:"replacechar"`

	// StripTabs and StripNewlines make the filter treat tab and newline
	// characters like any other control character.
	StripTabs     bool `json:"strip_tabs"`
	StripNewlines bool `json:"strip_newlines"`

	// UTF8 keeps non-ASCII characters. Otherwise the text is decomposed
	// (NFKD) and everything above 0x7F is dropped.
	UTF8 bool `json:"utf8"`

	// Raw skips the character filter entirely.
	Raw bool `json:"raw"`

	// BlockedSchemes overrides DefaultBlockedSchemes when non-nil.
	BlockedSchemes []string `json:"blocked_schemes,omitempty" validate:"omitempty,dive,required"`

	// NotagsSink, when set, receives the tag-free text before entity
	// decoding. It is called at most once per conversion.
	NotagsSink func(string) `json:"-"`
}

// DefaultOptions returns options for comma-delimited ASCII text output.
// The zero value of every boolean field is its default.
func DefaultOptions() *Options {
	return &Options{
		Format:         FormatText,
		TableDelim:     ",",
		BlockedSchemes: slices.Clone(DefaultBlockedSchemes),
	}
}

// Merge fills zero-valued fields of o from base and returns o.
// Boolean fields are left as set.
func (o *Options) Merge(base *Options) *Options {
	if base == nil {
		return o
	}
	if o.Format == "" {
		o.Format = base.Format
	}
	if o.TableDelim == "" {
		o.TableDelim = base.TableDelim
	}
	if o.BlockedSchemes == nil {
		o.BlockedSchemes = base.BlockedSchemes
	}
	if o.NotagsSink == nil {
		o.NotagsSink = base.NotagsSink
	}
	return o
}

// blockedSet returns the effective blocked-scheme lookup table.
func (o *Options) blockedSet() map[string]bool {
	schemes := o.BlockedSchemes
	if schemes == nil {
		schemes = DefaultBlockedSchemes
	}
	set := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		set[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return set
}

// filterOptions projects the character filter settings.
func (o *Options) filterOptions() FilterOptions {
	return FilterOptions{
		Replace:      o.Replace,
		KeepTabs:     !o.StripTabs,
		KeepNewlines: !o.StripNewlines,
		ASCIIOnly:    !o.UTF8,
	}
}

// ErrInvalidOptions is returned (wrapped) by Validate.
var ErrInvalidOptions = errors.New("invalid sanitize options")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tabledelim", func(fl validator.FieldLevel) bool {
		d := fl.Field().String()
		return d == "," || d == "\t"
	})
	_ = v.RegisterValidation("replacechar", func(fl validator.FieldLevel) bool {
		return validReplace(fl.Field().String())
	})
	return v
}

// validReplace accepts the empty string or a single printable rune.
func validReplace(s string) bool {
	if s == "" {
		return true
	}
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsPrint(r)
}

// Validate checks the options before a conversion runs. The conversion
// itself assumes validated options.
func (o *Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatValidationError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}

// formatValidationError creates a human-readable validation error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	case "tabledelim":
		return fmt.Sprintf("%s must be a comma or a tab", e.Field())
	case "replacechar":
		return fmt.Sprintf("%s must be empty or a single printable character, got %q", e.Field(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag())
	}
}
