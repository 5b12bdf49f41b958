// Package worker takes point-in-time snapshots of the shared store, either
// on a change event or on a fixed interval.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"patrimonio/internal/events"
	"patrimonio/internal/store"
)

type SnapshotWorker struct {
	kv  store.KV
	dir string
	now func() time.Time
}

func NewSnapshotWorker(kv store.KV, dir string) *SnapshotWorker {
	return &SnapshotWorker{kv: kv, dir: dir, now: time.Now}
}

// Snapshot writes one timestamped JSON file containing every stored
// collection as it currently is.
func (w *SnapshotWorker) Snapshot(ctx context.Context) error {
	keys, err := w.kv.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list store keys: %w", err)
	}

	dump := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		value, err := w.kv.Get(ctx, key)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		dump[key] = value
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	name := fmt.Sprintf("snapshot-%s.json", w.now().UTC().Format("20060102-150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot written", "path", path, "collections", len(dump))
	return nil
}

// HandleChange snapshots the store after a change event.
func (w *SnapshotWorker) HandleChange(msg *events.ChangeMessage) error {
	slog.Info("Change event received",
		"event_id", msg.EventID,
		"collection", msg.Collection,
		"action", msg.Action,
		"record_id", msg.RecordID)
	return w.Snapshot(context.Background())
}

// Run drives the worker until the context ends: a periodic snapshot loop,
// plus the change-event consumer when an events client is available.
func (w *SnapshotWorker) Run(ctx context.Context, client *events.Client, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.Snapshot(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic snapshot failed", "error", err)
				}
			}
		}
	})

	if client != nil {
		g.Go(func() error {
			return client.ConsumeChanges(ctx, w.HandleChange)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
