package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

type tagFamily struct {
	name string
	tags []string
}

var structureFamilies = []tagFamily{
	{name: "list", tags: []string{"ul", "ol", "li"}},
	{name: "table", tags: []string{"table", "tr", "td", "th"}},
}

type tagCounter struct {
	open  *regexp.Regexp
	close *regexp.Regexp
}

var tagCounters = buildTagCounters()

func buildTagCounters() map[string]tagCounter {
	counters := make(map[string]tagCounter)
	for _, fam := range structureFamilies {
		for _, tag := range fam.tags {
			counters[tag] = tagCounter{
				open:  regexp.MustCompile(`(?i)<` + tag + `\b[^>]*>`),
				close: regexp.MustCompile(`(?i)</` + tag + `\s*>`),
			}
		}
	}
	return counters
}

// StructureWarnings reports unbalanced list and table tags in an original
// fragment, one warning per tag family. The check is advisory and is run
// on the markup as received, before any rewriting.
func StructureWarnings(fragment string) []string {
	var warnings []string
	for _, fam := range structureFamilies {
		var details []string
		for _, tag := range fam.tags {
			c := tagCounters[tag]
			open := len(c.open.FindAllStringIndex(fragment, -1))
			closed := len(c.close.FindAllStringIndex(fragment, -1))
			if open != closed {
				details = append(details, fmt.Sprintf("<%s> %d != </%s> %d", tag, open, tag, closed))
			}
		}
		if len(details) > 0 {
			warnings = append(warnings, fmt.Sprintf("Malformed %s structure: %s", fam.name, strings.Join(details, "; ")))
		}
	}
	return warnings
}
