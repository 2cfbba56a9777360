package kpi

import (
	"testing"
	"time"
)

func scored(line string, score float64) *ComputedMetrics {
	return &ComputedMetrics{LineShift: line, TotalScore: score}
}

func TestRankStableTieBreak(t *testing.T) {
	// Equal scores keep input order and receive distinct consecutive ranks.
	ranked := Rank([]*ComputedMetrics{
		scored("A", 90),
		scored("B", 90),
		scored("C", 50),
	}, ByTotalScore)

	want := []struct {
		line string
		rank int
	}{
		{"A", 1},
		{"B", 2},
		{"C", 3},
	}
	for i, w := range want {
		if ranked[i].LineShift != w.line || ranked[i].Rank != w.rank {
			t.Fatalf("position %d: want=%s/%d got=%s/%d", i, w.line, w.rank, ranked[i].LineShift, ranked[i].Rank)
		}
	}
}

func TestRankDescendingWithTies(t *testing.T) {
	ranked := Rank([]*ComputedMetrics{
		scored("A", 50),
		scored("B", 90),
		scored("C", 90),
		scored("D", 10),
	}, ByTotalScore)

	wantOrder := []string{"B", "C", "A", "D"}
	wantRanks := []int{1, 2, 3, 4}
	for i := range wantOrder {
		if ranked[i].LineShift != wantOrder[i] {
			t.Fatalf("order %d: want=%s got=%s", i, wantOrder[i], ranked[i].LineShift)
		}
		if ranked[i].Rank != wantRanks[i] {
			t.Fatalf("rank %d: want=%d got=%d", i, wantRanks[i], ranked[i].Rank)
		}
	}
}

func TestRankEmptyAndNil(t *testing.T) {
	if got := Rank(nil, ByTotalScore); len(got) != 0 {
		t.Fatalf("rank(nil): want empty got=%d", len(got))
	}
	ranked := Rank([]*ComputedMetrics{nil, scored("A", 1)}, ByTotalScore)
	if len(ranked) != 1 || ranked[0].LineShift != "A" {
		t.Fatalf("nil entries must be dropped, got=%d", len(ranked))
	}
	if ranked[0].Rank != 1 {
		t.Fatalf("surviving entry rank: want=1 got=%d", ranked[0].Rank)
	}
}

func TestInWindow(t *testing.T) {
	// A Wednesday.
	now := time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)
	at := func(s string) *ComputedMetrics { return &ComputedMetrics{Date: day(s)} }

	cases := []struct {
		date   string
		window Window
		want   bool
	}{
		{"2026-03-18", WindowAllTime, true},
		{"2020-01-01", WindowAllTime, true},
		{"2026-03-12", WindowTrailing7Day, true},
		{"2026-03-11", WindowTrailing7Day, false},
		{"2026-03-16", WindowCalendarWeek, true}, // Monday of that week
		{"2026-03-15", WindowCalendarWeek, false},
		{"2026-03-01", WindowCalendarMonth, true},
		{"2026-02-28", WindowCalendarMonth, false},
		{"2026-03-19", WindowAllTime, false}, // future
	}
	for _, tc := range cases {
		if got := InWindow(at(tc.date), tc.window, now); got != tc.want {
			t.Fatalf("InWindow(%s, %s): want=%v got=%v", tc.date, tc.window, tc.want, got)
		}
	}
}

func TestRankWindowsIndependent(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	old := &ComputedMetrics{LineShift: "OLD", Date: day("2026-01-05"), TotalScore: 99}
	fresh := &ComputedMetrics{LineShift: "FRESH", Date: day("2026-03-17"), TotalScore: 50}

	byWindow := RankWindows([]*ComputedMetrics{old, fresh}, now, ByTotalScore)

	allTime := byWindow[WindowAllTime]
	if len(allTime) != 2 || allTime[0].LineShift != "OLD" {
		t.Fatalf("all-time ranking wrong: %+v", allTime)
	}
	trailing := byWindow[WindowTrailing7Day]
	if len(trailing) != 1 || trailing[0].LineShift != "FRESH" || trailing[0].Rank != 1 {
		t.Fatalf("trailing-7d ranking wrong: %+v", trailing)
	}
}
