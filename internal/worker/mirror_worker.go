package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tripboard/internal/amqp"
	"tripboard/internal/rows"
)

// Putter upserts a row into the local mirror.
type Putter interface {
	Put(ctx context.Context, table string, row rows.Row) error
}

// MirrorWorker copies rows from the hosted store into the local SQLite mirror
type MirrorWorker struct {
	source    rows.Store
	mirror    Putter
	batchSize int
}

func NewMirrorWorker(source rows.Store, mirror Putter, batchSize int) *MirrorWorker {
	if batchSize < 1 {
		batchSize = 50
	}
	return &MirrorWorker{
		source:    source,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleMirrorMessage processes a single row mirror message from AMQP.
// Put is an upsert, so redelivered messages are harmless.
func (w *MirrorWorker) HandleMirrorMessage(ctx context.Context, msg *amqp.RowMirrorMessage) error {
	slog.InfoContext(ctx, "Processing mirror message",
		"event", msg.Event,
		"table", msg.Table,
		"row_id", msg.ID)

	row, err := w.source.Get(ctx, msg.Table, msg.ID)
	if err != nil {
		if errors.Is(err, rows.ErrNotFound) {
			// The row was deleted upstream between publish and delivery.
			// Nothing to mirror; don't requeue.
			slog.WarnContext(ctx, "Row vanished upstream, skipping mirror",
				"table", msg.Table, "row_id", msg.ID)
			return nil
		}
		return fmt.Errorf("get row from source: %w", err)
	}

	if err := w.mirror.Put(ctx, msg.Table, row); err != nil {
		return fmt.Errorf("put row into mirror: %w", err)
	}

	slog.InfoContext(ctx, "Successfully mirrored row",
		"table", msg.Table,
		"row_id", msg.ID)

	return nil
}

// BackfillTable copies every row of one table into the mirror, one page at a
// time. Used at startup to recover from missed messages or worker downtime.
func (w *MirrorWorker) BackfillTable(ctx context.Context, table string) (int, error) {
	copied := 0
	offset := 0

	for {
		list, err := w.source.List(ctx, table,
			rows.Limit(w.batchSize),
			rows.Offset(offset),
		)
		if err != nil {
			return copied, fmt.Errorf("list %s rows at offset %d: %w", table, offset, err)
		}
		if len(list.Rows) == 0 {
			break
		}

		for _, row := range list.Rows {
			if err := w.mirror.Put(ctx, table, row); err != nil {
				return copied, fmt.Errorf("put row %s into mirror: %w", row.ID, err)
			}
			copied++
		}

		offset += len(list.Rows)
		if offset >= list.Total {
			break
		}
	}

	return copied, nil
}

// StartupBackfill mirrors all configured tables once at worker startup.
func (w *MirrorWorker) StartupBackfill(ctx context.Context, tables rows.Tables) error {
	for _, table := range []string{tables.Users, tables.Trips} {
		copied, err := w.BackfillTable(ctx, table)
		if err != nil {
			return fmt.Errorf("backfill %s: %w", table, err)
		}
		slog.InfoContext(ctx, "Backfill completed", "table", table, "rows", copied)
	}
	return nil
}
