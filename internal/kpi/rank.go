package kpi

import (
	"sort"
	"time"
)

type Window string

const (
	WindowAllTime       Window = "all_time"
	WindowTrailing7Day  Window = "trailing_7d"
	WindowCalendarWeek  Window = "calendar_week"
	WindowCalendarMonth Window = "calendar_month"
)

type RankedEntity struct {
	*ComputedMetrics
	Rank int `json:"rank"`
}

// Rank sorts descending by score and assigns 1-based sequential ranks.
// The sort is stable: entities with equal scores keep their input order and
// receive distinct consecutive ranks.
func Rank(entities []*ComputedMetrics, score func(*ComputedMetrics) float64) []RankedEntity {
	out := make([]RankedEntity, 0, len(entities))
	for _, e := range entities {
		if e == nil {
			continue
		}
		out = append(out, RankedEntity{ComputedMetrics: e})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i].ComputedMetrics) > score(out[j].ComputedMetrics)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// ByTotalScore is the default ranking key.
func ByTotalScore(m *ComputedMetrics) float64 { return m.TotalScore }

// InWindow reports whether a metric's date falls inside the window ending
// at now. All windows are date-based: trailing_7d covers the last 7
// calendar days inclusive, calendar_week starts Monday, calendar_month on
// the 1st.
func InWindow(m *ComputedMetrics, w Window, now time.Time) bool {
	if m == nil {
		return false
	}
	day := truncateDay(m.Date)
	today := truncateDay(now)
	if day.After(today) {
		return false
	}
	switch w {
	case WindowTrailing7Day:
		return !day.Before(today.AddDate(0, 0, -6))
	case WindowCalendarWeek:
		return !day.Before(startOfWeek(today))
	case WindowCalendarMonth:
		return !day.Before(time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()))
	default:
		return true
	}
}

// RankWindows ranks the same entities independently per window. One entity
// can carry a rank label per window without being duplicated upstream.
func RankWindows(entities []*ComputedMetrics, now time.Time, score func(*ComputedMetrics) float64) map[Window][]RankedEntity {
	windows := []Window{WindowAllTime, WindowTrailing7Day, WindowCalendarWeek, WindowCalendarMonth}
	out := make(map[Window][]RankedEntity, len(windows))
	for _, w := range windows {
		var subset []*ComputedMetrics
		for _, e := range entities {
			if InWindow(e, w, now) {
				subset = append(subset, e)
			}
		}
		out[w] = Rank(subset, score)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
