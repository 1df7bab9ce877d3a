package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthWindows(t *testing.T) {
	current, previous := MonthWindows(date(2024, time.March, 15), time.UTC)

	if !current.Start.Equal(date(2024, time.March, 1)) {
		t.Fatalf("current start = %v", current.Start)
	}
	if !current.End.Equal(date(2024, time.March, 31)) {
		t.Fatalf("current end = %v", current.End)
	}
	if !previous.Start.Equal(date(2024, time.February, 1)) {
		t.Fatalf("previous start = %v", previous.Start)
	}
	if !previous.End.Equal(date(2024, time.February, 29)) {
		t.Fatalf("previous end = %v (2024 is a leap year)", previous.End)
	}
}

func TestMonthWindowsJanuaryRollsIntoPriorYear(t *testing.T) {
	_, previous := MonthWindows(date(2024, time.January, 10), time.UTC)

	if !previous.Start.Equal(date(2023, time.December, 1)) {
		t.Fatalf("previous start = %v", previous.Start)
	}
	if !previous.End.Equal(date(2023, time.December, 31)) {
		t.Fatalf("previous end = %v", previous.End)
	}
}

func TestWindowContainsInclusiveBounds(t *testing.T) {
	w := Window{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	cases := []struct {
		t    time.Time
		want bool
	}{
		{date(2024, time.March, 1), true},
		{date(2024, time.March, 31), true},
		{date(2024, time.March, 15), true},
		{date(2024, time.February, 29), false},
		{date(2024, time.April, 1), false},
		{time.Time{}, false},
	}
	for i, tc := range cases {
		if got := w.Contains(tc.t); got != tc.want {
			t.Errorf("case %d: Contains(%v) = %v, want %v", i, tc.t, got, tc.want)
		}
	}
}

func TestCountInWindowSkipsZeroTimes(t *testing.T) {
	w := Window{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}
	users := []User{
		{JoinedAt: date(2024, time.March, 5)},
		{JoinedAt: time.Time{}}, // missing date in source row
		{JoinedAt: date(2024, time.March, 20)},
		{JoinedAt: date(2024, time.April, 2)},
	}
	got := CountInWindow(users, func(u User) time.Time { return u.JoinedAt }, w)
	if got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
}

func TestCountInWindowDisjointWindowsPartition(t *testing.T) {
	users := []User{
		{JoinedAt: date(2024, time.March, 5)},
		{JoinedAt: date(2024, time.March, 20)},
		{JoinedAt: date(2024, time.February, 10)},
	}
	current, previous := MonthWindows(date(2024, time.March, 15), time.UTC)
	at := func(u User) time.Time { return u.JoinedAt }

	a := CountInWindow(users, at, current)
	b := CountInWindow(users, at, previous)
	if a+b != len(users) {
		t.Fatalf("disjoint exhaustive windows must partition: %d + %d != %d", a, b, len(users))
	}
}

func TestIsActiveUser(t *testing.T) {
	yes := true
	no := false
	cases := []struct {
		name string
		u    User
		want bool
	}{
		{"explicit active flag", User{Active: &yes, Role: "admin"}, true},
		{"false flag falls through to role", User{Active: &no, Role: "member"}, true},
		{"role active", User{Role: "active"}, true},
		{"role user", User{Role: "user"}, true},
		{"role Member mixed case", User{Role: "Member"}, true},
		{"role basic", User{Role: "basic"}, true},
		{"role customer", User{Role: "customer"}, true},
		{"role Admin", User{Role: "Admin"}, false},
		{"role superadmin", User{Role: "superadmin"}, false},
		{"role staff", User{Role: "staff"}, false},
		{"role moderator", User{Role: "moderator"}, false},
		// No role data counts as active. Deliberate policy: sparse datasets
		// should not render the active-user card permanently zero.
		{"no role data defaults active", User{}, true},
		{"whitespace role defaults active", User{Role: "  "}, true},
		{"unknown role is inactive", User{Role: "guest"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsActiveUser(tc.u); got != tc.want {
				t.Fatalf("IsActiveUser(%+v) = %v, want %v", tc.u, got, tc.want)
			}
			// Idempotent: same input, same answer.
			if again := IsActiveUser(tc.u); again != tc.want {
				t.Fatalf("second call disagreed: %v", again)
			}
		})
	}
}

func TestComputeDashboardStats(t *testing.T) {
	users := []User{
		{JoinedAt: date(2024, time.March, 5), Role: "user"},
		{JoinedAt: date(2024, time.March, 20), Role: "admin"},
		{JoinedAt: date(2024, time.February, 10), Role: "member"},
	}
	trips := []Trip{
		{CreatedAt: date(2024, time.March, 2)},
		{CreatedAt: date(2024, time.February, 25)},
		{CreatedAt: date(2024, time.February, 1)},
	}

	stats := ComputeDashboardStats(users, trips, -1, -1, date(2024, time.March, 15), time.UTC)

	if stats.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", stats.TotalUsers)
	}
	if stats.UsersJoined.CurrentMonth != 2 || stats.UsersJoined.LastMonth != 1 {
		t.Errorf("UsersJoined = %+v, want {2 1}", stats.UsersJoined)
	}
	// The admin is excluded from the active tally.
	if stats.ActiveUsers.Total != 2 {
		t.Errorf("ActiveUsers.Total = %d, want 2", stats.ActiveUsers.Total)
	}
	if stats.ActiveUsers.CurrentMonth != 1 || stats.ActiveUsers.LastMonth != 1 {
		t.Errorf("ActiveUsers trend = %+v", stats.ActiveUsers)
	}
	if stats.TotalTrips != 3 {
		t.Errorf("TotalTrips = %d, want 3", stats.TotalTrips)
	}
	if stats.TripsCreated.CurrentMonth != 1 || stats.TripsCreated.LastMonth != 2 {
		t.Errorf("TripsCreated = %+v, want {1 2}", stats.TripsCreated)
	}
}

func TestComputeDashboardStatsExternalTotalsWin(t *testing.T) {
	users := []User{{JoinedAt: date(2024, time.March, 5)}}
	stats := ComputeDashboardStats(users, nil, 40, 12, date(2024, time.March, 15), time.UTC)
	if stats.TotalUsers != 40 {
		t.Fatalf("TotalUsers = %d, want envelope total 40", stats.TotalUsers)
	}
	if stats.TotalTrips != 12 {
		t.Fatalf("TotalTrips = %d, want envelope total 12", stats.TotalTrips)
	}
}

func TestComputeDashboardStatsEmptyInputs(t *testing.T) {
	stats := ComputeDashboardStats(nil, nil, -1, -1, date(2024, time.March, 15), time.UTC)
	if stats.TotalUsers != 0 || stats.TotalTrips != 0 ||
		stats.UsersJoined != (StatTrend{}) || stats.TripsCreated != (StatTrend{}) {
		t.Fatalf("expected all-zero stats, got %+v", stats)
	}
}

func TestGrowthByDay(t *testing.T) {
	users := []User{
		{JoinedAt: date(2024, time.March, 5)},
		{JoinedAt: date(2024, time.March, 7)},
		{JoinedAt: date(2024, time.March, 5)},
		{JoinedAt: time.Time{}},
	}
	got := GrowthByDay(users, func(u User) time.Time { return u.JoinedAt }, time.UTC)

	want := []SeriesPoint{{Day: "Mar 5", Count: 2}, {Day: "Mar 7", Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("series = %+v, want %+v", got, want)
	}
	total := 0
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("series[%d] = %+v, want %+v", i, got[i], want[i])
		}
		total += got[i].Count
	}
	// Bucket counts sum to the number of rows with a resolvable date.
	if total != 3 {
		t.Errorf("bucket sum = %d, want 3", total)
	}
}

func TestGrowthByDayFirstSeenOrder(t *testing.T) {
	// Input deliberately out of calendar order; output must follow input.
	users := []User{
		{JoinedAt: date(2024, time.March, 9)},
		{JoinedAt: date(2024, time.March, 2)},
		{JoinedAt: date(2024, time.March, 9)},
	}
	got := GrowthByDay(users, func(u User) time.Time { return u.JoinedAt }, time.UTC)
	if len(got) != 2 || got[0].Day != "Mar 9" || got[1].Day != "Mar 2" {
		t.Fatalf("expected first-seen order [Mar 9, Mar 2], got %+v", got)
	}
}

func TestCountByCategory(t *testing.T) {
	trips := []Trip{
		{Detail: TripDetail{TravelStyle: "Adventure"}},
		{Detail: TripDetail{TravelStyle: "Relax"}},
		{Detail: TripDetail{TravelStyle: "Adventure"}},
		{Detail: TripDetail{}}, // no style: skipped
	}
	got := CountByCategory(trips, func(t Trip) string { return t.Detail.TravelStyle })

	want := []TallyEntry{{Label: "Adventure", Count: 2}, {Label: "Relax", Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("tally = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tally[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
