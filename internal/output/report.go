package output

import (
	"github.com/jmylchreest/pagetext/pkg/cleaner/sanitize"
)

// PageReport describes one converted page.
type PageReport struct {
	Page     string                  `json:"page" yaml:"page"`
	ID       string                  `json:"id,omitempty" yaml:"id,omitempty"`
	Match    string                  `json:"match" yaml:"match"`
	Path     string                  `json:"path,omitempty" yaml:"path,omitempty"`
	Format   string                  `json:"format" yaml:"format"`
	Bytes    int                     `json:"bytes" yaml:"bytes"`
	Warnings []string                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Sanitize sanitize.SanitizeCounts `json:"sanitize" yaml:"sanitize"`
	Filter   sanitize.FilterCounts   `json:"filter" yaml:"filter"`
	Error    string                  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary totals a batch of page reports.
type Summary struct {
	Pages    int                     `json:"pages" yaml:"pages"`
	Written  int                     `json:"written" yaml:"written"`
	Missing  int                     `json:"missing" yaml:"missing"`
	Failed   int                     `json:"failed" yaml:"failed"`
	Warnings int                     `json:"warnings" yaml:"warnings"`
	Bytes    int                     `json:"bytes" yaml:"bytes"`
	Sanitize sanitize.SanitizeCounts `json:"sanitize" yaml:"sanitize"`
	Filter   sanitize.FilterCounts   `json:"filter" yaml:"filter"`
}

// Add counts r into the summary.
func (s *Summary) Add(r PageReport) {
	s.Pages++
	switch {
	case r.Error != "":
		s.Failed++
	case r.Match == "none":
		s.Missing++
	default:
		s.Written++
	}
	s.Warnings += len(r.Warnings)
	s.Bytes += r.Bytes
	s.Sanitize.Add(r.Sanitize)
	s.Filter.Add(r.Filter)
}
