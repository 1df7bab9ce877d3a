package rows

import (
	"encoding/json"

	"tripboard/internal/core"
)

// DecodeUser normalizes a raw user row into the canonical core.User. All
// dual-shape and legacy-field handling happens here so the aggregator never
// sees raw rows.
func DecodeUser(r Row) core.User {
	joined := r.Time("joinedAt")
	if joined.IsZero() {
		// Legacy field name from before the schema rename.
		joined = r.Time("dateJoined")
	}

	role := r.String("role")
	if role == "" {
		role = r.String("userRole")
	}
	if role == "" {
		role = r.String("status")
	}

	return core.User{
		ID:             r.ID,
		AccountID:      r.String("accountId"),
		Name:           r.String("name"),
		Email:          r.String("email"),
		ImageURL:       r.String("imageUrl"),
		JoinedAt:       joined,
		Role:           role,
		Active:         r.Bool("active"),
		ItineraryCount: intField(r, "itineraryCount"),
	}
}

// DecodeTrip normalizes a raw trip row. The itinerary detail may be stored
// flat, as a nested object, or as a JSON-encoded string in tripDetails; a
// detail that fails to parse is treated as absent, never an error.
func DecodeTrip(r Row) core.Trip {
	created := r.Time("createdAt")
	if created.IsZero() {
		created = r.CreatedAt
	}

	detail, _ := ParseTripDetail(fieldOrNil(r, "tripDetails"))
	if detail.TravelStyle == "" {
		detail.TravelStyle = r.String("travelStyle")
	}

	return core.Trip{
		ID:        r.ID,
		CreatedAt: created,
		Detail:    detail,
		ImageURLs: stringsField(r, "imageUrls"),
	}
}

// ParseTripDetail extracts the structured itinerary payload from whatever
// shape the row carries: a JSON string, an already-decoded map, or nothing.
func ParseTripDetail(v any) (core.TripDetail, bool) {
	var raw []byte
	switch d := v.(type) {
	case nil:
		return core.TripDetail{}, false
	case string:
		if d == "" {
			return core.TripDetail{}, false
		}
		raw = []byte(d)
	case map[string]any:
		var err error
		raw, err = json.Marshal(d)
		if err != nil {
			return core.TripDetail{}, false
		}
	default:
		return core.TripDetail{}, false
	}

	var detail core.TripDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return core.TripDetail{}, false
	}
	return detail, true
}

// DecodeUsers normalizes a whole listing.
func DecodeUsers(list RowList) []core.User {
	users := make([]core.User, 0, len(list.Rows))
	for _, r := range list.Rows {
		users = append(users, DecodeUser(r))
	}
	return users
}

// DecodeTrips normalizes a whole listing.
func DecodeTrips(list RowList) []core.Trip {
	trips := make([]core.Trip, 0, len(list.Rows))
	for _, r := range list.Rows {
		trips = append(trips, DecodeTrip(r))
	}
	return trips
}

func fieldOrNil(r Row, name string) any {
	v, ok := r.Field(name)
	if !ok {
		return nil
	}
	return v
}

func intField(r Row, name string) int {
	v, ok := r.Field(name)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64: // JSON numbers decode as float64
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

func stringsField(r Row, name string) []string {
	v, ok := r.Field(name)
	if !ok {
		return nil
	}
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
