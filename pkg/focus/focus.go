// Package focus loads the list of page names to extract and matches them
// against dump rows by title.
package focus

import (
	"strings"

	"github.com/jmylchreest/pagetext/internal/fileutil"
	"github.com/jmylchreest/pagetext/pkg/dump"
)

// Match labels.
const (
	LabelExact  = "exact"
	LabelPrefix = "prefix"
	LabelNone   = "none"
)

// Entry is one requested page name.
type Entry struct {
	// Name is the name as written in the list, trimmed.
	Name string `json:"name" yaml:"name"`
	// Key is the lookup key: Name, lowercased unless matching is case
	// sensitive.
	Key string `json:"key" yaml:"key"`
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	Entries []Entry
	// Duplicates holds names whose key was already listed, in list order.
	Duplicates []string
}

// Match pairs an entry with the row it selected. Row is nil when Label is
// LabelNone.
type Match struct {
	Entry Entry
	Label string
	Row   *dump.Row
}

// Load reads a pages list. Names are separated by commas or newlines;
// blank names are skipped.
func Load(path string, caseSensitive bool) (*LoadResult, error) {
	text, err := fileutil.ReadText(path, "pages list")
	if err != nil {
		return nil, err
	}
	return Parse(text, caseSensitive), nil
}

// Parse splits list text into entries. See Load.
func Parse(text string, caseSensitive bool) *LoadResult {
	text = strings.ReplaceAll(text, ",", "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	result := &LoadResult{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(text, "\n") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := dump.TitleKey(name, caseSensitive)
		if seen[key] {
			result.Duplicates = append(result.Duplicates, name)
			continue
		}
		seen[key] = true
		result.Entries = append(result.Entries, Entry{Name: name, Key: key})
	}
	return result
}

// MatchEntries resolves each entry to a row, in entry order. An exact
// title match wins; with usePrefix, rows whose title starts with the entry
// are tried next. Among several candidates dump.PickBest chooses.
func MatchEntries(entries []Entry, rows []dump.Row, caseSensitive, usePrefix bool) []Match {
	index := dump.TitleIndex(rows, caseSensitive)

	var keys []string
	if usePrefix {
		keys = make([]string, len(rows))
		for i, row := range rows {
			keys[i] = dump.TitleKey(row.Title, caseSensitive)
		}
	}

	matches := make([]Match, 0, len(entries))
	for _, entry := range entries {
		matches = append(matches, matchEntry(entry, index, rows, keys, usePrefix))
	}
	return matches
}

func matchEntry(entry Entry, index map[string][]dump.Row, rows []dump.Row, keys []string, usePrefix bool) Match {
	if exact := index[entry.Key]; len(exact) > 0 {
		return Match{Entry: entry, Label: LabelExact, Row: dump.PickBest(exact)}
	}
	if usePrefix {
		var candidates []dump.Row
		for i, key := range keys {
			if strings.HasPrefix(key, entry.Key) {
				candidates = append(candidates, rows[i])
			}
		}
		if len(candidates) > 0 {
			return Match{Entry: entry, Label: LabelPrefix, Row: dump.PickBest(candidates)}
		}
	}
	return Match{Entry: entry, Label: LabelNone}
}

// MatchLabel is the reverse of MatchEntries: it reports which entry, if
// any, claims row. An exact match wins; otherwise with usePrefix the
// longest entry key that prefixes the title wins, earlier entries first
// on equal length. It returns LabelNone and "" when nothing matches.
func MatchLabel(row dump.Row, entries []Entry, caseSensitive, usePrefix bool) (label, name string) {
	key := dump.TitleKey(row.Title, caseSensitive)
	for _, entry := range entries {
		if key == entry.Key {
			return LabelExact, entry.Name
		}
	}
	if usePrefix {
		var best *Entry
		for i := range entries {
			entry := &entries[i]
			if strings.HasPrefix(key, entry.Key) && (best == nil || len(entry.Key) > len(best.Key)) {
				best = entry
			}
		}
		if best != nil {
			return LabelPrefix, best.Name
		}
	}
	return LabelNone, ""
}
