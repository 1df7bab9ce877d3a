// Package memory is a fixture-backed row store used by tests and local
// development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tripboard/internal/rows"
)

type Store struct {
	mu     sync.Mutex
	tables map[string][]rows.Row
	nextID int
}

// New creates an empty store, optionally pre-populated per table.
func New(tables map[string][]rows.Row) *Store {
	s := &Store{tables: make(map[string][]rows.Row)}
	for name, rs := range tables {
		s.tables[name] = append([]rows.Row(nil), rs...)
	}
	return s
}

// NewFromFiles loads fixture rows from <base>/<table>.json for the given
// tables. Missing or unreadable files leave the table empty; local fixtures
// are a convenience, not a requirement.
func NewFromFiles(base string, tables ...string) *Store {
	loaded := make(map[string][]rows.Row)
	for _, table := range tables {
		rs, err := readRows(filepath.Join(base, table+".json"))
		if err != nil {
			continue
		}
		loaded[table] = rs
	}
	return New(loaded)
}

func (s *Store) List(_ context.Context, table string, queries ...rows.Query) (rows.RowList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]rows.Row, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		if matchesAll(r, queries) {
			matched = append(matched, r)
		}
	}
	total := len(matched)

	offset, limit := pageBounds(queries, total)
	matched = matched[offset:limit]

	if fields := selectedFields(queries); fields != nil {
		projected := make([]rows.Row, len(matched))
		for i, r := range matched {
			projected[i] = project(r, fields)
		}
		matched = projected
	}

	return rows.RowList{Rows: matched, Total: total}, nil
}

func (s *Store) Get(_ context.Context, table, id string) (rows.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.tables[table] {
		if r.ID == id {
			return r, nil
		}
	}
	return rows.Row{}, rows.ErrNotFound
}

func (s *Store) Create(_ context.Context, table string, data map[string]any) (rows.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r := rows.Row{
		ID:        fmt.Sprintf("mem:%d", s.nextID),
		CreatedAt: time.Now().UTC(),
		Data:      cloneData(data),
	}
	s.tables[table] = append(s.tables[table], r)
	return r, nil
}

func (s *Store) Update(_ context.Context, table, id string, data map[string]any) (rows.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.tables[table] {
		if r.ID != id {
			continue
		}
		for k, v := range data {
			r.Data[k] = v
		}
		s.tables[table][i] = r
		return r, nil
	}
	return rows.Row{}, rows.ErrNotFound
}

func matchesAll(r rows.Row, queries []rows.Query) bool {
	for _, q := range queries {
		if q.Op != rows.OpEqual || len(q.Values) == 0 {
			continue
		}
		v, ok := r.Field(q.Attribute)
		if !ok || fmt.Sprint(v) != fmt.Sprint(q.Values[0]) {
			return false
		}
	}
	return true
}

func pageBounds(queries []rows.Query, total int) (offset, end int) {
	limit := -1
	for _, q := range queries {
		if len(q.Values) == 0 {
			continue
		}
		n, ok := q.Values[0].(int)
		if !ok {
			continue
		}
		switch q.Op {
		case rows.OpOffset:
			offset = n
		case rows.OpLimit:
			limit = n
		}
	}

	end = total
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}
	if end < offset {
		end = offset
	}
	return offset, end
}

func selectedFields(queries []rows.Query) map[string]bool {
	for _, q := range queries {
		if q.Op != rows.OpSelect {
			continue
		}
		fields := make(map[string]bool, len(q.Values))
		for _, v := range q.Values {
			if s, ok := v.(string); ok {
				fields[s] = true
			}
		}
		return fields
	}
	return nil
}

func project(r rows.Row, fields map[string]bool) rows.Row {
	data := make(map[string]any, len(fields))
	for k, v := range r.Data {
		if fields[k] {
			data[k] = v
		}
	}
	return rows.Row{ID: r.ID, CreatedAt: r.CreatedAt, Data: data}
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func readRows(path string) ([]rows.Row, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rs []rows.Row
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rs, nil
}
