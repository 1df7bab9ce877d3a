package rows

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRowFieldNestedBeforeFlat(t *testing.T) {
	r := Row{Data: map[string]any{
		"joinedAt": "2024-01-01T00:00:00Z",
		"data": map[string]any{
			"joinedAt": "2024-03-05T00:00:00Z",
		},
	}}
	// The nested data sub-mapping wins over the flat field.
	if got := r.String("joinedAt"); got != "2024-03-05T00:00:00Z" {
		t.Fatalf("joinedAt = %q", got)
	}
}

func TestRowFieldFlatFallback(t *testing.T) {
	r := Row{Data: map[string]any{"role": "member"}}
	if got := r.String("role"); got != "member" {
		t.Fatalf("role = %q", got)
	}
	if _, ok := r.Field("missing"); ok {
		t.Fatal("missing field resolved")
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		zero bool
	}{
		{"2024-03-05T10:30:00.000Z", false},
		{"2024-03-05T10:30:00Z", false},
		{"2024-03-05", false},
		{"05/03/2024", true},
		{"not a date", true},
		{"", true},
	}
	for _, tc := range cases {
		got := ParseTime(tc.in)
		if got.IsZero() != tc.zero {
			t.Errorf("ParseTime(%q) zero=%v, want %v", tc.in, got.IsZero(), tc.zero)
		}
	}
}

func TestRowUnmarshalLiftsMetadata(t *testing.T) {
	payload := `{"$id":"u1","$createdAt":"2024-03-05T10:30:00.000Z","$updatedAt":"2024-03-06T00:00:00Z","name":"Ada"}`
	var r Row
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatal(err)
	}
	if r.ID != "u1" {
		t.Errorf("ID = %q", r.ID)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
	if _, ok := r.Data["$updatedAt"]; ok {
		t.Error("metadata leaked into Data")
	}
	if r.String("name") != "Ada" {
		t.Errorf("name = %q", r.String("name"))
	}
}

func TestDecodeUser(t *testing.T) {
	r := Row{
		ID: "u1",
		Data: map[string]any{
			"accountId": "acc-9",
			"name":      "Ada",
			"email":     "ada@example.com",
			"joinedAt":  "2024-03-05T00:00:00Z",
			"userRole":  "member", // role absent, legacy field used
			"active":    true,
		},
	}
	u := DecodeUser(r)
	if u.ID != "u1" || u.AccountID != "acc-9" || u.Name != "Ada" {
		t.Fatalf("identity fields: %+v", u)
	}
	if u.Role != "member" {
		t.Errorf("Role = %q", u.Role)
	}
	if u.Active == nil || !*u.Active {
		t.Error("Active flag not decoded")
	}
	if u.JoinedAt.IsZero() {
		t.Error("JoinedAt not parsed")
	}
}

func TestDecodeUserLegacyDateJoined(t *testing.T) {
	r := Row{Data: map[string]any{"dateJoined": "2024-02-10"}}
	u := DecodeUser(r)
	want := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	if !u.JoinedAt.Equal(want) {
		t.Fatalf("JoinedAt = %v, want %v", u.JoinedAt, want)
	}
}

func TestDecodeUserMalformedDateIsZero(t *testing.T) {
	r := Row{Data: map[string]any{"joinedAt": "yesterday"}}
	if u := DecodeUser(r); !u.JoinedAt.IsZero() {
		t.Fatalf("JoinedAt = %v, want zero", u.JoinedAt)
	}
}

func TestDecodeTripDetailVariants(t *testing.T) {
	cases := []struct {
		name  string
		data  map[string]any
		style string
	}{
		{
			"flat travelStyle",
			map[string]any{"travelStyle": "Adventure"},
			"Adventure",
		},
		{
			"JSON-encoded tripDetails string",
			map[string]any{"tripDetails": `{"travelStyle":"Relax","country":"Italy"}`},
			"Relax",
		},
		{
			"decoded tripDetails object",
			map[string]any{"tripDetails": map[string]any{"travelStyle": "Luxury"}},
			"Luxury",
		},
		{
			"corrupt tripDetails falls back to flat",
			map[string]any{"tripDetails": `{"travelStyle":`, "travelStyle": "Hiking"},
			"Hiking",
		},
		{
			"nothing resolvable",
			map[string]any{"country": "Spain"},
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trip := DecodeTrip(Row{Data: tc.data})
			if trip.Detail.TravelStyle != tc.style {
				t.Fatalf("TravelStyle = %q, want %q", trip.Detail.TravelStyle, tc.style)
			}
		})
	}
}

func TestDecodeTripCreatedAtFallsBackToRowMetadata(t *testing.T) {
	meta := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	trip := DecodeTrip(Row{ID: "t1", CreatedAt: meta, Data: map[string]any{}})
	if !trip.CreatedAt.Equal(meta) {
		t.Fatalf("CreatedAt = %v, want row metadata %v", trip.CreatedAt, meta)
	}
}

func TestDecodeTripImageURLs(t *testing.T) {
	trip := DecodeTrip(Row{Data: map[string]any{
		"imageUrls": []any{"https://a/1.jpg", "https://a/2.jpg"},
	}})
	if len(trip.ImageURLs) != 2 || trip.ImageURLs[0] != "https://a/1.jpg" {
		t.Fatalf("ImageURLs = %v", trip.ImageURLs)
	}
}
