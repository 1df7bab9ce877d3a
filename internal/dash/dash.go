// Package dash assembles the admin dashboard view model from the row store.
//
// Dashboard reads degrade instead of failing: any branch that errors is
// logged and its section of the view stays at its zero value, so one slow
// or broken table never blanks the whole console.
package dash

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tripboard/internal/core"
	"tripboard/internal/rows"
)

const latestCount = 4

// View is everything the dashboard page renders in one payload.
type View struct {
	Stats        core.DashboardStats `json:"stats"`
	UserGrowth   []core.SeriesPoint  `json:"userGrowth"`
	TripGrowth   []core.SeriesPoint  `json:"tripGrowth"`
	TravelStyles []core.TallyEntry   `json:"tripsByTravelStyle"`
	LatestTrips  []core.Trip         `json:"allTrips"`
	LatestUsers  []core.User         `json:"allUsers"`
}

// Loader fans out the row store reads behind the dashboard.
type Loader struct {
	store  rows.Lister
	tables rows.Tables
	loc    *time.Location
	now    func() time.Time
}

func NewLoader(store rows.Lister, tables rows.Tables, loc *time.Location) *Loader {
	if loc == nil {
		loc = time.UTC
	}
	return &Loader{
		store:  store,
		tables: tables,
		loc:    loc,
		now:    time.Now,
	}
}

// Load fetches all dashboard inputs concurrently and aggregates them.
// It never returns an error; failed branches degrade to empty sections.
func (l *Loader) Load(ctx context.Context) View {
	var (
		users      []core.User
		trips      []core.Trip
		usersTotal = -1
		tripsTotal = -1

		latestTrips []core.Trip
		latestUsers []core.User
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := l.store.List(ctx, l.tables.Users)
		if err != nil {
			slog.WarnContext(ctx, "Dashboard users load failed, degrading to empty",
				"table", l.tables.Users, "error", err)
			return nil
		}
		users = rows.DecodeUsers(list)
		usersTotal = list.Total
		return nil
	})

	g.Go(func() error {
		list, err := l.store.List(ctx, l.tables.Trips)
		if err != nil {
			slog.WarnContext(ctx, "Dashboard trips load failed, degrading to empty",
				"table", l.tables.Trips, "error", err)
			return nil
		}
		trips = rows.DecodeTrips(list)
		tripsTotal = list.Total
		return nil
	})

	g.Go(func() error {
		list, err := l.store.List(ctx, l.tables.Trips, rows.Limit(latestCount))
		if err != nil {
			slog.WarnContext(ctx, "Dashboard latest trips load failed, degrading to empty",
				"table", l.tables.Trips, "error", err)
			return nil
		}
		latestTrips = rows.DecodeTrips(list)
		return nil
	})

	g.Go(func() error {
		list, err := l.store.List(ctx, l.tables.Users,
			rows.Limit(latestCount),
			rows.Select("name", "email", "imageUrl", "joinedAt", "itineraryCount"),
		)
		if err != nil {
			slog.WarnContext(ctx, "Dashboard latest users load failed, degrading to empty",
				"table", l.tables.Users, "error", err)
			return nil
		}
		latestUsers = rows.DecodeUsers(list)
		return nil
	})

	// Branches swallow their own errors, so Wait cannot fail.
	_ = g.Wait()

	now := l.now()

	return View{
		Stats:        core.ComputeDashboardStats(users, trips, usersTotal, tripsTotal, now, l.loc),
		UserGrowth:   core.GrowthByDay(users, func(u core.User) time.Time { return u.JoinedAt }, l.loc),
		TripGrowth:   core.GrowthByDay(trips, func(t core.Trip) time.Time { return t.CreatedAt }, l.loc),
		TravelStyles: core.CountByCategory(trips, func(t core.Trip) string { return t.Detail.TravelStyle }),
		LatestTrips:  latestTrips,
		LatestUsers:  latestUsers,
	}
}
