package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"patrimonio/internal/store"
)

func TestSnapshotWritesAllCollections(t *testing.T) {
	ctx := context.Background()
	kv, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	kv.Put(ctx, store.KeyAssets, []byte(`[{"id":1,"type":"Stocks","value":100}]`))
	kv.Put(ctx, store.KeyIncomes, []byte(`[]`))

	dir := t.TempDir()
	w := NewSnapshotWorker(kv, dir)
	w.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

	if err := w.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	path := filepath.Join(dir, "snapshot-20240315-103000.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var dump map[string]json.RawMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(dump) != 2 {
		t.Fatalf("snapshot holds %d collections, want 2", len(dump))
	}
	if _, ok := dump[store.KeyAssets]; !ok {
		t.Fatal("snapshot missing assets collection")
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	ctx := context.Background()
	kv, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	dir := t.TempDir()
	w := NewSnapshotWorker(kv, dir)
	if err := w.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot of empty store: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one snapshot file, found %d", len(entries))
	}
}
