// Package store is the shared persistent key/value store the ledgers and
// journals read and rewrite whole collections through. Each key holds one
// JSON-serialized collection.
package store

import (
	"context"
	"errors"
	"fmt"
)

// The complete on-disk contract: six keys, each a JSON array.
const (
	KeyAssets                 = "assets"
	KeyLiabilities            = "liabilities"
	KeyIncomes                = "incomes"
	KeyExpenditures           = "expenditures"
	KeyIncomeAssetTypes       = "incomeAssetTypes"
	KeyExpenditureLiabilities = "expenditureLiabilities"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a key to JSON-blob store. Implementations must make Put atomic at
// the granularity of a single key; cross-key consistency is the caller's
// single-writer discipline, not the store's.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open selects a backend by name: "file" persists one JSON file per key
// under dataDir, "sqlite" keeps all keys in a single database at dbPath.
func Open(backend, dataDir, dbPath string) (KV, error) {
	switch backend {
	case "file":
		return NewFileStore(dataDir)
	case "sqlite":
		return NewSQLiteStore(dbPath)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
