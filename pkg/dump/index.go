package dump

import (
	"strings"
)

// TitleKey returns the lookup key for a title.
func TitleKey(title string, caseSensitive bool) string {
	if caseSensitive {
		return title
	}
	return strings.ToLower(title)
}

// TitleIndex groups rows by title key, keeping dump order within a group.
func TitleIndex(rows []Row, caseSensitive bool) map[string][]Row {
	index := make(map[string][]Row)
	for _, row := range rows {
		key := TitleKey(row.Title, caseSensitive)
		index[key] = append(index[key], row)
	}
	return index
}

// IDIndex groups rows by id, keeping dump order within a group.
func IDIndex(rows []Row) map[string][]Row {
	index := make(map[string][]Row)
	for _, row := range rows {
		index[row.ID] = append(index[row.ID], row)
	}
	return index
}

// StatusRank orders statuses for PickBest: publish, draft, private, then
// everything else.
func StatusRank(status string) int {
	switch strings.ToLower(status) {
	case "publish":
		return 0
	case "draft":
		return 1
	case "private":
		return 2
	}
	return 3
}

// PickBest returns the preferred row among rows sharing a title: the
// lowest StatusRank, then the latest date. Earlier rows win ties. It
// returns nil for no rows.
func PickBest(rows []Row) *Row {
	var best *Row
	for i := range rows {
		row := &rows[i]
		if best == nil {
			best = row
			continue
		}
		rank, bestRank := StatusRank(row.Status), StatusRank(best.Status)
		if rank < bestRank || (rank == bestRank && row.Date > best.Date) {
			best = row
		}
	}
	return best
}
