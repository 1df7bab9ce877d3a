package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tripboard/internal/rows"
)

func seeded() *Store {
	return New(map[string][]rows.Row{
		"users": {
			{ID: "u1", Data: map[string]any{"accountId": "a1", "role": "member"}},
			{ID: "u2", Data: map[string]any{"accountId": "a2", "role": "admin"}},
			{ID: "u3", Data: map[string]any{"accountId": "a3", "role": "member"}},
		},
	})
}

func TestListAll(t *testing.T) {
	list, err := seeded().List(context.Background(), "users")
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 3 || len(list.Rows) != 3 {
		t.Fatalf("total=%d rows=%d", list.Total, len(list.Rows))
	}
}

func TestListEqualFilter(t *testing.T) {
	list, err := seeded().List(context.Background(), "users", rows.Equal("role", "member"))
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 2 {
		t.Fatalf("total = %d, want 2", list.Total)
	}
}

func TestListLimitOffsetKeepsTotal(t *testing.T) {
	list, err := seeded().List(context.Background(), "users", rows.Limit(1), rows.Offset(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Rows) != 1 || list.Rows[0].ID != "u2" {
		t.Fatalf("rows = %+v", list.Rows)
	}
	// The envelope total reflects all matches, not the page.
	if list.Total != 3 {
		t.Fatalf("total = %d, want 3", list.Total)
	}
}

func TestListSelectProjectsFields(t *testing.T) {
	list, err := seeded().List(context.Background(), "users", rows.Select("role"))
	if err != nil {
		t.Fatal(err)
	}
	r := list.Rows[0]
	if r.String("role") == "" {
		t.Fatal("selected field dropped")
	}
	if _, ok := r.Field("accountId"); ok {
		t.Fatal("unselected field survived projection")
	}
}

func TestCreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	created, err := s.Create(ctx, "trips", map[string]any{"travelStyle": "Relax"})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("created = %+v", created)
	}

	got, err := s.Get(ctx, "trips", created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.String("travelStyle") != "Relax" {
		t.Fatalf("travelStyle = %q", got.String("travelStyle"))
	}

	if _, err := s.Update(ctx, "trips", created.ID, map[string]any{"travelStyle": "Adventure"}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "trips", created.ID)
	if got.String("travelStyle") != "Adventure" {
		t.Fatalf("travelStyle after update = %q", got.String("travelStyle"))
	}

	if _, err := s.Get(ctx, "trips", "nope"); !errors.Is(err, rows.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.Update(ctx, "trips", "nope", nil); !errors.Is(err, rows.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	fixture := `[{"$id":"u1","$createdAt":"2024-03-05T00:00:00Z","name":"Ada"}]`
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFromFiles(dir, "users", "trips")
	list, err := s.List(context.Background(), "users")
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || list.Rows[0].ID != "u1" {
		t.Fatalf("list = %+v", list)
	}

	// Missing fixture file leaves the table empty rather than failing.
	trips, err := s.List(context.Background(), "trips")
	if err != nil || trips.Total != 0 {
		t.Fatalf("trips = %+v, err = %v", trips, err)
	}
}
