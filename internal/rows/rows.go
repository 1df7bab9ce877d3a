// Package rows defines the boundary to the row store: the raw row shape,
// the list envelope, query options, and the ports implemented by the
// hosted, sqlite and memory backends.
package rows

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and Update when no row matches the ID.
var ErrNotFound = errors.New("row not found")

// Row is one stored record: a stable identifier, the store-assigned
// creation timestamp, and an opaque field mapping. Rows arrive in two
// shapes from an evolving backend schema: fields either sit at the top
// level or inside a nested "data" sub-mapping. Field resolves both.
type Row struct {
	ID        string
	CreatedAt time.Time
	Data      map[string]any
}

// RowList is the list envelope: a page of rows plus the store-reported
// total, which may exceed len(Rows) under pagination.
type RowList struct {
	Rows  []Row
	Total int
}

// Field resolves a named field, checking the nested data sub-mapping first
// and falling back to the top level.
func (r Row) Field(name string) (any, bool) {
	if nested, ok := r.Data["data"].(map[string]any); ok {
		if v, ok := nested[name]; ok && v != nil {
			return v, true
		}
	}
	v, ok := r.Data[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String resolves a field as a string, returning "" when absent or not a
// string.
func (r Row) String(name string) string {
	v, ok := r.Field(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Bool resolves a field as a bool pointer, nil when absent or not boolean.
func (r Row) Bool(name string) *bool {
	v, ok := r.Field(name)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

// Time resolves a field as a timestamp. Unparseable or absent values yield
// the zero time; aggregation skips those rows rather than erroring.
func (r Row) Time(name string) time.Time {
	return ParseTime(r.String(name))
}

// ParseTime parses a date-like string from a row field. Accepts RFC 3339
// with or without sub-second precision and bare dates; anything else is the
// zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// UnmarshalJSON decodes a wire row, lifting the store's $-prefixed metadata
// out of the field mapping.
func (r *Row) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if id, ok := m["$id"].(string); ok {
		r.ID = id
		delete(m, "$id")
	}
	if created, ok := m["$createdAt"].(string); ok {
		r.CreatedAt = ParseTime(created)
		delete(m, "$createdAt")
	}
	delete(m, "$updatedAt")
	delete(m, "$permissions")
	delete(m, "$databaseId")
	delete(m, "$tableId")
	delete(m, "$collectionId")
	r.Data = m
	return nil
}

// MarshalJSON re-emits the wire shape with $-prefixed metadata.
func (r Row) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Data)+2)
	for k, v := range r.Data {
		m[k] = v
	}
	if r.ID != "" {
		m["$id"] = r.ID
	}
	if !r.CreatedAt.IsZero() {
		m["$createdAt"] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(m)
}

// Op enumerates the supported query operations.
type Op string

const (
	OpEqual  Op = "equal"
	OpLimit  Op = "limit"
	OpOffset Op = "offset"
	OpSelect Op = "select"
)

// Query restricts a List call. Backends that cannot honor an operation
// ignore it rather than failing the listing.
type Query struct {
	Op        Op
	Attribute string
	Values    []any
}

// Equal restricts the listing to rows whose attribute equals value.
func Equal(attribute string, value any) Query {
	return Query{Op: OpEqual, Attribute: attribute, Values: []any{value}}
}

// Limit caps the number of returned rows.
func Limit(n int) Query {
	return Query{Op: OpLimit, Values: []any{n}}
}

// Offset skips the first n rows.
func Offset(n int) Query {
	return Query{Op: OpOffset, Values: []any{n}}
}

// Select restricts the returned field subset.
func Select(attributes ...string) Query {
	vals := make([]any, len(attributes))
	for i, a := range attributes {
		vals[i] = a
	}
	return Query{Op: OpSelect, Values: vals}
}

// Ports for row store backends.
type (
	Lister interface {
		List(ctx context.Context, table string, queries ...Query) (RowList, error)
	}

	Getter interface {
		Get(ctx context.Context, table, id string) (Row, error)
	}

	Creator interface {
		Create(ctx context.Context, table string, data map[string]any) (Row, error)
	}

	Updater interface {
		Update(ctx context.Context, table, id string, data map[string]any) (Row, error)
	}

	// Store is the full backend surface selected by the factory.
	Store interface {
		Lister
		Getter
		Creator
		Updater
	}
)

// Tables names the two logical tables the console works with.
type Tables struct {
	Users string
	Trips string
}
