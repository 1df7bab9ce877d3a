package core

import "time"

// CountInWindow counts the items whose timestamp, as resolved by at, falls
// inside the window. Items with a zero timestamp are skipped, never an
// error: a corrupt minority of rows must not block the whole statistic.
func CountInWindow[T any](items []T, at func(T) time.Time, w Window) int {
	n := 0
	for _, it := range items {
		if w.Contains(at(it)) {
			n++
		}
	}
	return n
}

// ComputeDashboardStats turns the full user and trip snapshots into the
// dashboard's scalar statistics relative to ref. userTotal and tripTotal are
// the totals reported by the row store envelope; they take precedence over
// the local snapshot length when non-negative, since the two may disagree
// under pagination. Pass -1 when no external total is known.
func ComputeDashboardStats(users []User, trips []Trip, userTotal, tripTotal int, ref time.Time, loc *time.Location) DashboardStats {
	current, previous := MonthWindows(ref, loc)

	joinedAt := func(u User) time.Time { return u.JoinedAt }
	createdAt := func(t Trip) time.Time { return t.CreatedAt }

	active := make([]User, 0, len(users))
	for _, u := range users {
		if IsActiveUser(u) {
			active = append(active, u)
		}
	}

	if userTotal < 0 {
		userTotal = len(users)
	}
	if tripTotal < 0 {
		tripTotal = len(trips)
	}

	return DashboardStats{
		TotalUsers: userTotal,
		UsersJoined: StatTrend{
			CurrentMonth: CountInWindow(users, joinedAt, current),
			LastMonth:    CountInWindow(users, joinedAt, previous),
		},
		ActiveUsers: ActiveUserStats{
			Total:        len(active),
			CurrentMonth: CountInWindow(active, joinedAt, current),
			LastMonth:    CountInWindow(active, joinedAt, previous),
		},
		TotalTrips: tripTotal,
		TripsCreated: StatTrend{
			CurrentMonth: CountInWindow(trips, createdAt, current),
			LastMonth:    CountInWindow(trips, createdAt, previous),
		},
	}
}

// GrowthByDay buckets items into per-day counts labeled with a short
// "Jan 2"-style day name rendered in loc. Items with a zero timestamp are
// skipped. Bucket order follows first appearance in the input, not the
// calendar; callers that need chronological order must sort the input first.
func GrowthByDay[T any](items []T, at func(T) time.Time, loc *time.Location) []SeriesPoint {
	if loc == nil {
		loc = time.UTC
	}
	var series []SeriesPoint
	index := make(map[string]int)
	for _, it := range items {
		t := at(it)
		if t.IsZero() {
			continue
		}
		day := t.In(loc).Format("Jan 2")
		if i, ok := index[day]; ok {
			series[i].Count++
			continue
		}
		index[day] = len(series)
		series = append(series, SeriesPoint{Day: day, Count: 1})
	}
	return series
}

// CountByCategory tallies items by the label resolved by key, skipping items
// with an empty label. First-seen order, count-preserving over the items
// that resolve.
func CountByCategory[T any](items []T, key func(T) string) []TallyEntry {
	var tally []TallyEntry
	index := make(map[string]int)
	for _, it := range items {
		label := key(it)
		if label == "" {
			continue
		}
		if i, ok := index[label]; ok {
			tally[i].Count++
			continue
		}
		index[label] = len(tally)
		tally = append(tally, TallyEntry{Label: label, Count: 1})
	}
	return tally
}
