// Package journal owns the time-stamped income and expenditure events and
// drives the cross-ledger deduct/restore side effects. Journals never mutate
// a ledger entry directly; they invoke the owning ledger.
package journal

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

// DefaultAssetTypes is the selection-list fallback when no asset types have
// ever been published.
var DefaultAssetTypes = []string{"Real Estate", "Stocks", "Bonds", "Other"}

// AssetBook is the slice of the asset ledger the income journal needs.
type AssetBook interface {
	Deduct(ctx context.Context, typ string, amount decimal.Decimal) error
	Restore(ctx context.Context, typ string, amount decimal.Decimal) error
	Lookup(typ string) (core.Asset, bool)
	Types() []string
}

// IncomeJournal owns the incomes collection. Recording an asset-linked
// income deducts from the linked asset; deleting it restores the recorded
// amount before the event is forgotten.
type IncomeJournal struct {
	mu      sync.Mutex
	kv      store.KV
	assets  AssetBook
	incomes []core.Income
	lastID  int64
	now     func() time.Time
}

func NewIncomeJournal(ctx context.Context, kv store.KV, assets AssetBook) (*IncomeJournal, error) {
	j := &IncomeJournal{
		kv:      kv,
		assets:  assets,
		incomes: []core.Income{},
		now:     time.Now,
	}

	data, err := kv.Get(ctx, store.KeyIncomes)
	if err == store.ErrNotFound {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load incomes: %w", err)
	}

	if err := json.Unmarshal(data, &j.incomes); err != nil {
		slog.WarnContext(ctx, "Malformed incomes collection, starting empty", "error", err)
		j.incomes = []core.Income{}
		return j, nil
	}
	if j.incomes == nil {
		j.incomes = []core.Income{}
	}

	// Legacy records predate period tracking; backfill them with the
	// current date. Records that already carry all three fields are
	// left untouched.
	now := j.now()
	for i, inc := range j.incomes {
		if inc.Year == 0 || inc.Month == 0 || inc.Timestamp == 0 {
			j.incomes[i].Year = now.Year()
			j.incomes[i].Month = int(now.Month())
			j.incomes[i].Timestamp = now.UnixMilli()
		}
		if inc.ID > j.lastID {
			j.lastID = inc.ID
		}
	}
	return j, nil
}

func (j *IncomeJournal) nextID() int64 {
	id := j.now().UnixMilli()
	if id <= j.lastID {
		id = j.lastID + 1
	}
	j.lastID = id
	return id
}

// Record validates and appends an income event. Asset-linked incomes deduct
// the amount from the linked asset through the asset ledger; the event is
// recorded even when no asset matches the link.
func (j *IncomeJournal) Record(ctx context.Context, inc core.Income) (core.Income, error) {
	if inc.Type == core.IncomeSalary {
		inc.AssetType = ""
	}
	if err := inc.Validate(); err != nil {
		return core.Income{}, err
	}

	j.mu.Lock()
	inc.ID = j.nextID()
	inc.Timestamp = j.now().UnixMilli()
	j.incomes = append(j.incomes, inc)
	if err := j.persist(ctx); err != nil {
		j.incomes = j.incomes[:len(j.incomes)-1]
		j.mu.Unlock()
		return core.Income{}, err
	}
	j.mu.Unlock()

	if inc.Type == core.IncomeAsset {
		if err := j.assets.Deduct(ctx, inc.AssetType, inc.Amount); err != nil {
			return core.Income{}, fmt.Errorf("deduct asset %s: %w", inc.AssetType, err)
		}
	}

	slog.InfoContext(ctx, "Income recorded",
		"id", inc.ID, "type", inc.Type, "amount", inc.Amount,
		"year", inc.Year, "month", inc.Month)
	return inc, nil
}

// Delete removes an income event. The linked asset is restored with the
// event's original recorded amount before the event is forgotten, so the
// reversal is exact even after later deductions. An unknown id is a no-op.
func (j *IncomeJournal) Delete(ctx context.Context, id int64) error {
	j.mu.Lock()
	var found *core.Income
	for i := range j.incomes {
		if j.incomes[i].ID == id {
			found = &j.incomes[i]
			break
		}
	}
	if found == nil {
		j.mu.Unlock()
		return nil
	}
	inc := *found
	j.mu.Unlock()

	if inc.Type == core.IncomeAsset {
		if err := j.assets.Restore(ctx, inc.AssetType, inc.Amount); err != nil {
			return fmt.Errorf("restore asset %s: %w", inc.AssetType, err)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	kept := j.incomes[:0]
	for _, e := range j.incomes {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	j.incomes = kept
	return j.persist(ctx)
}

// ListForPeriod returns the incomes recorded under the given year and month
// in insertion order.
func (j *IncomeJournal) ListForPeriod(year, month int) []core.Income {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := []core.Income{}
	for _, inc := range j.incomes {
		if inc.Year == year && inc.Month == month {
			out = append(out, inc)
		}
	}
	return out
}

// TotalForPeriod sums the amounts of the incomes in the given period.
func (j *IncomeJournal) TotalForPeriod(year, month int) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range j.ListForPeriod(year, month) {
		total = total.Add(inc.Amount)
	}
	return total
}

// AssetTypeOptions returns the published asset types, falling back to
// DefaultAssetTypes when none exist.
func (j *IncomeJournal) AssetTypeOptions() []string {
	types := j.assets.Types()
	if len(types) == 0 {
		return append([]string(nil), DefaultAssetTypes...)
	}
	return types
}

// DefaultSuggestion prefills amount and description from the linked asset:
// the derived monthly income when the asset yields one, otherwise the full
// asset value.
func (j *IncomeJournal) DefaultSuggestion(assetType string) (decimal.Decimal, string, bool) {
	a, ok := j.assets.Lookup(assetType)
	if !ok {
		return decimal.Zero, "", false
	}
	if a.IsMonthlyIncome && a.MonthlyIncomeAmount != nil {
		return *a.MonthlyIncomeAmount, a.Description, true
	}
	return a.Value, a.Description, true
}

func (j *IncomeJournal) persist(ctx context.Context) error {
	data, err := json.Marshal(j.incomes)
	if err != nil {
		return fmt.Errorf("marshal incomes: %w", err)
	}
	if err := j.kv.Put(ctx, store.KeyIncomes, data); err != nil {
		return fmt.Errorf("persist incomes: %w", err)
	}
	return nil
}
