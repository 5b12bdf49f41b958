// Package ledger owns the asset and liability collections, including the
// derived-field recomputation and the side tables the journals consume.
// Each ledger reads its collection fully at construction and rewrites it
// fully after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"patrimonio/internal/core"
	"patrimonio/internal/store"
)

// AssetLedger owns the assets collection. Every mutation persists the full
// collection and republishes the incomeAssetTypes side table.
type AssetLedger struct {
	mu     sync.Mutex
	kv     store.KV
	assets []core.Asset
	lastID int64
	now    func() time.Time
}

func NewAssetLedger(ctx context.Context, kv store.KV) (*AssetLedger, error) {
	l := &AssetLedger{
		kv:     kv,
		assets: []core.Asset{},
		now:    time.Now,
	}

	data, err := kv.Get(ctx, store.KeyAssets)
	if err == store.ErrNotFound {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	if err := json.Unmarshal(data, &l.assets); err != nil {
		// Malformed stored data degrades to an empty collection.
		slog.WarnContext(ctx, "Malformed assets collection, starting empty", "error", err)
		l.assets = []core.Asset{}
		return l, nil
	}
	if l.assets == nil {
		l.assets = []core.Asset{}
	}
	for _, a := range l.assets {
		if a.ID > l.lastID {
			l.lastID = a.ID
		}
	}
	return l, nil
}

// nextID derives a unique id from the clock, bumped past the last issued id
// so rapid successive adds stay monotonic.
func (l *AssetLedger) nextID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// Add validates and stores a new asset, deriving MonthlyIncomeAmount when
// the asset generates monthly income and an interest rate was supplied.
func (l *AssetLedger) Add(ctx context.Context, a core.Asset) (core.Asset, error) {
	if err := a.Validate(); err != nil {
		return core.Asset{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a.ID = l.nextID()
	if !a.IsMonthlyIncome {
		a.InterestRate = nil
	}
	a.MonthlyIncomeAmount = derivedMonthlyIncome(a)

	l.assets = append(l.assets, a)
	if err := l.persist(ctx); err != nil {
		l.assets = l.assets[:len(l.assets)-1]
		return core.Asset{}, err
	}

	slog.InfoContext(ctx, "Asset added", "id", a.ID, "type", a.Type, "value", a.Value)
	return a, nil
}

// Remove deletes an asset by id. Income events referencing its type keep
// their denormalized assetType string; there is no cascade.
func (l *AssetLedger) Remove(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.assets[:0]
	removed := false
	for _, a := range l.assets {
		if a.ID == id {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	l.assets = kept
	if !removed {
		return nil
	}
	return l.persist(ctx)
}

// Deduct subtracts amount from the first asset whose type matches, clamped
// at zero, and recomputes the derived monthly income. A missing type is a
// silent no-op.
func (l *AssetLedger) Deduct(ctx context.Context, typ string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOfType(typ)
	if i < 0 {
		slog.DebugContext(ctx, "Deduct skipped, no matching asset", "type", typ)
		return nil
	}

	value := l.assets[i].Value.Sub(amount)
	if value.IsNegative() {
		value = decimal.Zero
	}
	l.assets[i].Value = value
	l.assets[i].MonthlyIncomeAmount = derivedMonthlyIncome(l.assets[i])
	return l.persist(ctx)
}

// Restore adds amount back to the first asset whose type matches. Unlike
// Deduct it is not clamped: restoring a clamped deduction may overshoot
// the original value, matching the recorded event amount exactly.
func (l *AssetLedger) Restore(ctx context.Context, typ string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOfType(typ)
	if i < 0 {
		slog.DebugContext(ctx, "Restore skipped, no matching asset", "type", typ)
		return nil
	}

	l.assets[i].Value = l.assets[i].Value.Add(amount)
	l.assets[i].MonthlyIncomeAmount = derivedMonthlyIncome(l.assets[i])
	return l.persist(ctx)
}

// List returns the assets in insertion order.
func (l *AssetLedger) List() []core.Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Asset(nil), l.assets...)
}

// Lookup returns the first asset whose type matches. Types are not enforced
// unique; duplicates resolve to the earliest insertion.
func (l *AssetLedger) Lookup(typ string) (core.Asset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOfType(typ); i >= 0 {
		return l.assets[i], true
	}
	return core.Asset{}, false
}

// Types returns the distinct asset types in insertion order, the same
// sequence republished to the incomeAssetTypes side table.
func (l *AssetLedger) Types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.distinctTypes()
}

func (l *AssetLedger) indexOfType(typ string) int {
	for i, a := range l.assets {
		if a.Type == typ {
			return i
		}
	}
	return -1
}

func (l *AssetLedger) distinctTypes() []string {
	seen := map[string]struct{}{}
	types := []string{}
	for _, a := range l.assets {
		if _, ok := seen[a.Type]; ok {
			continue
		}
		seen[a.Type] = struct{}{}
		types = append(types, a.Type)
	}
	return types
}

// persist rewrites the assets collection and republishes the side table.
// Callers must hold the mutex.
func (l *AssetLedger) persist(ctx context.Context) error {
	data, err := json.Marshal(l.assets)
	if err != nil {
		return fmt.Errorf("marshal assets: %w", err)
	}
	if err := l.kv.Put(ctx, store.KeyAssets, data); err != nil {
		return fmt.Errorf("persist assets: %w", err)
	}

	types, err := json.Marshal(l.distinctTypes())
	if err != nil {
		return fmt.Errorf("marshal asset types: %w", err)
	}
	if err := l.kv.Put(ctx, store.KeyIncomeAssetTypes, types); err != nil {
		return fmt.Errorf("persist asset types: %w", err)
	}
	return nil
}

func derivedMonthlyIncome(a core.Asset) *decimal.Decimal {
	if !a.IsMonthlyIncome || a.InterestRate == nil {
		return nil
	}
	amount := core.MonthlyIncome(a.Value, *a.InterestRate)
	return &amount
}
