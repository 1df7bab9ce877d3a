package core

import (
	"strings"
	"time"
)

type (
	// User is the canonical, normalized form of a row from the users table.
	// A zero JoinedAt means the source row carried no usable signup date.
	User struct {
		ID             string    `json:"id"`
		AccountID      string    `json:"accountId"`
		Name           string    `json:"name"`
		Email          string    `json:"email"`
		ImageURL       string    `json:"imageUrl"`
		JoinedAt       time.Time `json:"dateJoined"`
		Role           string    `json:"role"`
		Active         *bool     `json:"-"`
		ItineraryCount int       `json:"itineraryCount"`
	}

	// Trip is the canonical, normalized form of a row from the trips table.
	Trip struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"createdAt"`

		Detail    TripDetail `json:"detail"`
		ImageURLs []string   `json:"imageUrls"`
	}

	// TripDetail holds the structured itinerary payload. In the row store it
	// may live as a JSON-encoded string inside the tripDetails field.
	TripDetail struct {
		Name           string   `json:"name"`
		Country        string   `json:"country"`
		Duration       int      `json:"duration"`
		TravelStyle    string   `json:"travelStyle"`
		GroupType      string   `json:"groupType"`
		Budget         string   `json:"budget"`
		EstimatedPrice string   `json:"estimatedPrice"`
		Interests      []string `json:"interests"`
	}

	// Window is an inclusive [Start, End] timestamp range used for monthly
	// bucketing.
	Window struct {
		Start time.Time
		End   time.Time
	}

	// StatTrend pairs the current and previous calendar-month counts of a
	// statistic.
	StatTrend struct {
		CurrentMonth int `json:"currentMonth"`
		LastMonth    int `json:"lastMonth"`
	}

	// ActiveUserStats carries the active-user tally alongside its monthly
	// trend.
	ActiveUserStats struct {
		Total        int `json:"total"`
		CurrentMonth int `json:"currentMonth"`
		LastMonth    int `json:"lastMonth"`
	}

	// DashboardStats is the aggregate result served to the admin dashboard.
	// Derived, never persisted; recomputed from the current row snapshot on
	// every request.
	DashboardStats struct {
		TotalUsers   int             `json:"totalUsers"`
		UsersJoined  StatTrend       `json:"usersJoined"`
		ActiveUsers  ActiveUserStats `json:"userRole"`
		TotalTrips   int             `json:"totalTrips"`
		TripsCreated StatTrend       `json:"tripsCreated"`
	}

	// SeriesPoint is one day bucket of a growth series.
	SeriesPoint struct {
		Day   string `json:"day"`
		Count int    `json:"count"`
	}

	// TallyEntry is one category bucket of a tally.
	TallyEntry struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}
)

// Contains reports whether t falls inside the window, bounds included.
// Zero times never match.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthWindows derives the current and previous calendar-month windows from
// a reference instant, computed in the supplied location. Each window spans
// from midnight on the first day of the month to midnight on its last day.
func MonthWindows(ref time.Time, loc *time.Location) (current, previous Window) {
	if loc == nil {
		loc = time.UTC
	}
	ref = ref.In(loc)
	y, m := ref.Year(), ref.Month()

	current = Window{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		End:   time.Date(y, m+1, 0, 0, 0, 0, 0, loc),
	}
	previous = Window{
		Start: time.Date(y, m-1, 1, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, 0, 0, 0, 0, 0, loc),
	}
	return current, previous
}

// IsActiveUser classifies a user as active or not. The rules, first match
// wins: an explicit active=true flag grants; a role of "active" or a common
// non-staff role grants; staff roles deny; a missing role counts as active
// so that sparse datasets do not zero the stat; anything else denies.
func IsActiveUser(u User) bool {
	if u.Active != nil && *u.Active {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(u.Role)) {
	case "active":
		return true
	case "user", "member", "basic", "customer":
		return true
	case "admin", "superadmin", "staff", "moderator":
		return false
	case "":
		return true
	default:
		return false
	}
}
