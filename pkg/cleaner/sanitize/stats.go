package sanitize

import (
	"fmt"
	"strings"
)

// SanitizeCounts records what the markup stages did to a fragment.
type SanitizeCounts struct {
	BlocksRemoved       int `json:"blocks_removed" yaml:"blocks_removed"`
	CommentsRemoved     int `json:"comments_removed" yaml:"comments_removed"`
	TagsRemoved         int `json:"tags_removed" yaml:"tags_removed"`
	EntitiesRemoved     int `json:"entities_removed" yaml:"entities_removed"`
	AnchorsConverted    int `json:"anchors_converted" yaml:"anchors_converted"`
	ImagesConverted     int `json:"images_converted" yaml:"images_converted"`
	HeadingsConverted   int `json:"headings_converted" yaml:"headings_converted"`
	ListItemsConverted  int `json:"list_items_converted" yaml:"list_items_converted"`
	TableCellsConverted int `json:"table_cells_converted" yaml:"table_cells_converted"`
	BlocksConverted     int `json:"blocks_converted" yaml:"blocks_converted"`

	BlockedSchemeLinks  int `json:"blocked_scheme_links" yaml:"blocked_scheme_links"`
	BlockedSchemeImages int `json:"blocked_scheme_images" yaml:"blocked_scheme_images"`
	OtherSchemeLinks    int `json:"other_scheme_links" yaml:"other_scheme_links"`
	OtherSchemeImages   int `json:"other_scheme_images" yaml:"other_scheme_images"`
	MissingSchemeLinks  int `json:"missing_scheme_links" yaml:"missing_scheme_links"`
	MissingSchemeImages int `json:"missing_scheme_images" yaml:"missing_scheme_images"`
}

// Add accumulates other into c.
func (c *SanitizeCounts) Add(other SanitizeCounts) {
	c.BlocksRemoved += other.BlocksRemoved
	c.CommentsRemoved += other.CommentsRemoved
	c.TagsRemoved += other.TagsRemoved
	c.EntitiesRemoved += other.EntitiesRemoved
	c.AnchorsConverted += other.AnchorsConverted
	c.ImagesConverted += other.ImagesConverted
	c.HeadingsConverted += other.HeadingsConverted
	c.ListItemsConverted += other.ListItemsConverted
	c.TableCellsConverted += other.TableCellsConverted
	c.BlocksConverted += other.BlocksConverted
	c.BlockedSchemeLinks += other.BlockedSchemeLinks
	c.BlockedSchemeImages += other.BlockedSchemeImages
	c.OtherSchemeLinks += other.OtherSchemeLinks
	c.OtherSchemeImages += other.OtherSchemeImages
	c.MissingSchemeLinks += other.MissingSchemeLinks
	c.MissingSchemeImages += other.MissingSchemeImages
}

// Pairs returns the counters as label/value pairs in a stable order.
func (c SanitizeCounts) Pairs() []CountPair {
	return []CountPair{
		{"blocks_rm", c.BlocksRemoved},
		{"comments_rm", c.CommentsRemoved},
		{"tags_rm", c.TagsRemoved},
		{"entities_rm", c.EntitiesRemoved},
		{"anchors_conv", c.AnchorsConverted},
		{"images_conv", c.ImagesConverted},
		{"headings_conv", c.HeadingsConverted},
		{"lists_conv", c.ListItemsConverted},
		{"tables_conv", c.TableCellsConverted},
		{"blocks_conv", c.BlocksConverted},
		{"blocked_scheme_links", c.BlockedSchemeLinks},
		{"blocked_scheme_images", c.BlockedSchemeImages},
		{"other_scheme_links", c.OtherSchemeLinks},
		{"other_scheme_images", c.OtherSchemeImages},
		{"missing_scheme_links", c.MissingSchemeLinks},
		{"missing_scheme_images", c.MissingSchemeImages},
	}
}

// String returns the non-zero counters, e.g. "tags_rm=4 anchors_conv=1".
func (c SanitizeCounts) String() string {
	return joinPairs(c.Pairs())
}

// FilterCounts records what the character filter removed.
// Replacements never exceeds the sum of the removal counters.
type FilterCounts struct {
	Control      int `json:"control" yaml:"control"`
	ZeroWidth    int `json:"zero_width" yaml:"zero_width"`
	Tabs         int `json:"tabs" yaml:"tabs"`
	Newlines     int `json:"newlines" yaml:"newlines"`
	NonASCII     int `json:"non_ascii" yaml:"non_ascii"`
	Replacements int `json:"replacements" yaml:"replacements"`
}

// Add accumulates other into c.
func (c *FilterCounts) Add(other FilterCounts) {
	c.Control += other.Control
	c.ZeroWidth += other.ZeroWidth
	c.Tabs += other.Tabs
	c.Newlines += other.Newlines
	c.NonASCII += other.NonASCII
	c.Replacements += other.Replacements
}

// Removed returns the total number of characters the filter dropped.
func (c FilterCounts) Removed() int {
	return c.Control + c.ZeroWidth + c.Tabs + c.Newlines + c.NonASCII
}

// Pairs returns the counters as label/value pairs in a stable order.
func (c FilterCounts) Pairs() []CountPair {
	return []CountPair{
		{"re_control", c.Control},
		{"re_zero", c.ZeroWidth},
		{"re_tab", c.Tabs},
		{"re_nl", c.Newlines},
		{"re_non_ascii", c.NonASCII},
		{"rep_chars", c.Replacements},
	}
}

// String returns the non-zero counters.
func (c FilterCounts) String() string {
	return joinPairs(c.Pairs())
}

// CountPair is one labelled counter.
type CountPair struct {
	Label string
	Value int
}

func joinPairs(pairs []CountPair) string {
	var sb strings.Builder
	for _, p := range pairs {
		if p.Value == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%s=%d", p.Label, p.Value))
	}
	return sb.String()
}

// Result holds the output of one conversion along with its telemetry.
type Result struct {
	// Content is the cleaned text, empty or ending in exactly one newline.
	Content string `json:"content"`

	// Sanitize and Filter are the per-call counters.
	Sanitize SanitizeCounts `json:"sanitize"`
	Filter   FilterCounts   `json:"filter"`

	// Warnings are structure warnings for the original fragment.
	Warnings []string `json:"warnings,omitempty"`

	// InputBytes and OutputBytes are the fragment and content sizes.
	InputBytes  int `json:"input_bytes"`
	OutputBytes int `json:"output_bytes"`
}

// HasWarnings returns true if the original fragment had unbalanced structure.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
