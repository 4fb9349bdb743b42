package dump

import (
	"strings"
	"time"
)

// KnownStatuses are the post statuses WordPress writes.
var KnownStatuses = []string{"publish", "draft", "private", "pending", "future", "trash", "inherit", "auto-draft"}

var knownStatus = func() map[string]bool {
	m := make(map[string]bool, len(KnownStatuses))
	for _, s := range KnownStatuses {
		m[s] = true
	}
	return m
}()

var dateLayouts = []string{time.DateTime, time.DateOnly}

// rowValidator counts suspicious column values. It never rejects a row.
type rowValidator struct {
	seen map[string]bool
}

func newValidator() *rowValidator {
	return &rowValidator{seen: make(map[string]bool)}
}

func (v *rowValidator) check(row Row, stats *Stats) {
	if !ValidID(row.ID) {
		stats.InvalidIDCount++
	}
	if v.seen[row.ID] {
		stats.DuplicateIDCount++
	}
	v.seen[row.ID] = true
	if !knownStatus[strings.ToLower(strings.TrimSpace(row.Status))] {
		stats.UnknownStatusCount++
	}
	if !ValidDate(row.Date) {
		stats.InvalidDateCount++
	}
}

// ValidID reports whether id is a non-empty run of ASCII digits.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// ValidDate reports whether date is YYYY-MM-DD, optionally followed by
// HH:MM:SS. MySQL zero dates are not valid.
func ValidDate(date string) bool {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, date); err == nil {
			return true
		}
	}
	return false
}
