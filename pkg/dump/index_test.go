package dump

import (
	"testing"
)

func TestTitleIndex(t *testing.T) {
	rows := []Row{
		{ID: "1", Title: "Home"},
		{ID: "2", Title: "home"},
		{ID: "3", Title: "About"},
	}

	sensitive := TitleIndex(rows, true)
	if len(sensitive["Home"]) != 1 || len(sensitive["home"]) != 1 {
		t.Errorf("unexpected case-sensitive index %+v", sensitive)
	}

	insensitive := TitleIndex(rows, false)
	if got := insensitive["home"]; len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("expected both rows under 'home' in dump order, got %+v", got)
	}
	if _, ok := insensitive["Home"]; ok {
		t.Error("expected keys to be lowercase")
	}
}

func TestIDIndex(t *testing.T) {
	idx := IDIndex([]Row{{ID: "1"}, {ID: "1"}, {ID: "2"}})
	if len(idx["1"]) != 2 || len(idx["2"]) != 1 {
		t.Errorf("unexpected index %+v", idx)
	}
}

func TestStatusRank(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{"publish", 0},
		{"PUBLISH", 0},
		{"draft", 1},
		{"private", 2},
		{"trash", 3},
		{"", 3},
	}
	for _, tt := range tests {
		if got := StatusRank(tt.status); got != tt.want {
			t.Errorf("StatusRank(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestPickBest(t *testing.T) {
	tests := []struct {
		name   string
		rows   []Row
		wantID string
	}{
		{"single", []Row{{ID: "1", Status: "trash"}}, "1"},
		{"publish beats newer draft", []Row{
			{ID: "1", Status: "draft", Date: "2024-05-01"},
			{ID: "2", Status: "publish", Date: "2020-01-01"},
		}, "2"},
		{"latest date within a rank", []Row{
			{ID: "1", Status: "publish", Date: "2021-01-01"},
			{ID: "2", Status: "publish", Date: "2023-01-01"},
			{ID: "3", Status: "publish", Date: "2022-01-01"},
		}, "2"},
		{"first wins a tie", []Row{
			{ID: "1", Status: "private", Date: "2021-01-01"},
			{ID: "2", Status: "private", Date: "2021-01-01"},
		}, "1"},
		{"unknown statuses share a rank", []Row{
			{ID: "1", Status: "trash", Date: "2021-01-01"},
			{ID: "2", Status: "inherit", Date: "2022-01-01"},
		}, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickBest(tt.rows)
			if got == nil || got.ID != tt.wantID {
				t.Errorf("PickBest() = %+v, want id %s", got, tt.wantID)
			}
		})
	}

	if PickBest(nil) != nil {
		t.Error("expected nil for no rows")
	}
}

func TestValidators(t *testing.T) {
	ids := map[string]bool{"1": true, "007": true, "": false, "1a": false, "-1": false, " 1": false}
	for id, want := range ids {
		if got := ValidID(id); got != want {
			t.Errorf("ValidID(%q) = %v, want %v", id, got, want)
		}
	}

	dates := map[string]bool{
		"2024-01-02":          true,
		"2024-01-02 03:04:05": true,
		"2024-02-30":          false,
		"0000-00-00 00:00:00": false,
		"2024-01-02T03:04:05": false,
		"":                    false,
	}
	for date, want := range dates {
		if got := ValidDate(date); got != want {
			t.Errorf("ValidDate(%q) = %v, want %v", date, got, want)
		}
	}
}
