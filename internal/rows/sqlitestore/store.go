// Package sqlitestore is the local SQLite mirror of the hosted row store.
// The server can serve dashboards from it when the hosted store is
// unreachable or too slow, and the mirror worker keeps it fresh.
package sqlitestore

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"tripboard/internal/rows"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Ensure interface conformance
var _ rows.Store = (*Store)(nil)

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) List(ctx context.Context, table string, queries ...rows.Query) (rows.RowList, error) {
	where := []string{"tbl = ?"}
	args := []any{table}
	for _, q := range queries {
		if q.Op != rows.OpEqual || len(q.Values) == 0 {
			continue
		}
		attr, err := safeAttribute(q.Attribute)
		if err != nil {
			return rows.RowList{}, err
		}
		where = append(where, fmt.Sprintf("json_extract(data, '$.%s') = ?", attr))
		args = append(args, q.Values[0])
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQ := "SELECT COUNT(*) FROM mirror_rows WHERE " + cond
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return rows.RowList{}, fmt.Errorf("count rows: %w", err)
	}

	listQ := "SELECT id, created_at, data FROM mirror_rows WHERE " + cond + " ORDER BY rowid"
	if n, ok := queryInt(queries, rows.OpLimit); ok {
		listQ += fmt.Sprintf(" LIMIT %d", n)
	}
	if n, ok := queryInt(queries, rows.OpOffset); ok {
		if !strings.Contains(listQ, "LIMIT") {
			listQ += " LIMIT -1"
		}
		listQ += fmt.Sprintf(" OFFSET %d", n)
	}

	rs, err := s.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return rows.RowList{}, fmt.Errorf("list rows: %w", err)
	}
	defer rs.Close()

	var out []rows.Row
	for rs.Next() {
		row, err := scanRow(rs)
		if err != nil {
			return rows.RowList{}, err
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return rows.RowList{}, fmt.Errorf("iterate rows: %w", err)
	}

	return rows.RowList{Rows: out, Total: total}, nil
}

func (s *Store) Get(ctx context.Context, table, id string) (rows.Row, error) {
	q := "SELECT id, created_at, data FROM mirror_rows WHERE tbl = ? AND id = ?"
	rs, err := s.db.QueryContext(ctx, q, table, id)
	if err != nil {
		return rows.Row{}, fmt.Errorf("get row: %w", err)
	}
	defer rs.Close()

	if !rs.Next() {
		if err := rs.Err(); err != nil {
			return rows.Row{}, fmt.Errorf("get row: %w", err)
		}
		return rows.Row{}, rows.ErrNotFound
	}
	return scanRow(rs)
}

func (s *Store) Create(ctx context.Context, table string, data map[string]any) (rows.Row, error) {
	row := rows.Row{
		ID:        newRowID(),
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
	if err := s.Put(ctx, table, row); err != nil {
		return rows.Row{}, err
	}
	return row, nil
}

func (s *Store) Update(ctx context.Context, table, id string, data map[string]any) (rows.Row, error) {
	existing, err := s.Get(ctx, table, id)
	if err != nil {
		return rows.Row{}, err
	}
	for k, v := range data {
		existing.Data[k] = v
	}
	if err := s.Put(ctx, table, existing); err != nil {
		return rows.Row{}, err
	}
	return existing, nil
}

// Put upserts a row, keeping the mirror idempotent when the worker replays
// a delivery.
func (s *Store) Put(ctx context.Context, table string, row rows.Row) error {
	payload, err := json.Marshal(row.Data)
	if err != nil {
		return fmt.Errorf("marshal row data: %w", err)
	}
	created := row.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO mirror_rows (tbl, id, created_at, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT (tbl, id) DO UPDATE SET created_at = excluded.created_at, data = excluded.data`,
		table, row.ID, created.Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("upsert row: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(rs rowScanner) (rows.Row, error) {
	var id, created, payload string
	if err := rs.Scan(&id, &created, &payload); err != nil {
		return rows.Row{}, fmt.Errorf("scan row: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return rows.Row{}, fmt.Errorf("decode row data: %w", err)
	}
	return rows.Row{ID: id, CreatedAt: rows.ParseTime(created), Data: data}, nil
}

var attributePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func safeAttribute(attr string) (string, error) {
	if !attributePattern.MatchString(attr) {
		return "", fmt.Errorf("invalid filter attribute %q", attr)
	}
	return attr, nil
}

func queryInt(queries []rows.Query, op rows.Op) (int, bool) {
	for _, q := range queries {
		if q.Op != op || len(q.Values) == 0 {
			continue
		}
		if n, ok := q.Values[0].(int); ok && n >= 0 {
			return n, true
		}
	}
	return 0, false
}

func newRowID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("loc_%d", time.Now().UnixNano())
	}
	return "loc_" + hex.EncodeToString(b)
}
