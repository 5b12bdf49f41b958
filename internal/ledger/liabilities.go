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

// LiabilityLedger owns the liabilities collection. Every mutation persists
// the full collection and republishes the expenditureLiabilities side table,
// the only channel through which the expenditure journal discovers valid
// liability types and their current monthly payment.
type LiabilityLedger struct {
	mu          sync.Mutex
	kv          store.KV
	liabilities []core.Liability
	lastID      int64
	now         func() time.Time
}

func NewLiabilityLedger(ctx context.Context, kv store.KV) (*LiabilityLedger, error) {
	l := &LiabilityLedger{
		kv:          kv,
		liabilities: []core.Liability{},
		now:         time.Now,
	}

	data, err := kv.Get(ctx, store.KeyLiabilities)
	if err == store.ErrNotFound {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load liabilities: %w", err)
	}

	if err := json.Unmarshal(data, &l.liabilities); err != nil {
		slog.WarnContext(ctx, "Malformed liabilities collection, starting empty", "error", err)
		l.liabilities = []core.Liability{}
		return l, nil
	}
	if l.liabilities == nil {
		l.liabilities = []core.Liability{}
	}
	for _, li := range l.liabilities {
		if li.ID > l.lastID {
			l.lastID = li.ID
		}
	}
	return l, nil
}

func (l *LiabilityLedger) nextID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// Add validates and stores a new liability.
func (l *LiabilityLedger) Add(ctx context.Context, li core.Liability) (core.Liability, error) {
	if err := li.Validate(); err != nil {
		return core.Liability{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	li.ID = l.nextID()
	l.liabilities = append(l.liabilities, li)
	if err := l.persist(ctx); err != nil {
		l.liabilities = l.liabilities[:len(l.liabilities)-1]
		return core.Liability{}, err
	}

	slog.InfoContext(ctx, "Liability added", "id", li.ID, "type", li.Type, "amount", li.Amount)
	return li, nil
}

// Remove deletes a liability by id without cascading to expenditure events.
func (l *LiabilityLedger) Remove(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.liabilities[:0]
	removed := false
	for _, li := range l.liabilities {
		if li.ID == id {
			removed = true
			continue
		}
		kept = append(kept, li)
	}
	l.liabilities = kept
	if !removed {
		return nil
	}
	return l.persist(ctx)
}

// Deduct subtracts amount from the remaining principal of the first
// liability whose type matches, clamped at zero. The side table is
// recomputed from the new principal. A missing type is a silent no-op.
func (l *LiabilityLedger) Deduct(ctx context.Context, typ string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOfType(typ)
	if i < 0 {
		slog.DebugContext(ctx, "Deduct skipped, no matching liability", "type", typ)
		return nil
	}

	remaining := l.liabilities[i].Amount.Sub(amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	l.liabilities[i].Amount = remaining
	return l.persist(ctx)
}

// Restore adds amount back to the first matching liability's principal,
// unclamped, mirroring Deduct.
func (l *LiabilityLedger) Restore(ctx context.Context, typ string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOfType(typ)
	if i < 0 {
		slog.DebugContext(ctx, "Restore skipped, no matching liability", "type", typ)
		return nil
	}

	l.liabilities[i].Amount = l.liabilities[i].Amount.Add(amount)
	return l.persist(ctx)
}

// List returns the liabilities in insertion order.
func (l *LiabilityLedger) List() []core.Liability {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Liability(nil), l.liabilities...)
}

// MonthlyPayments returns the expenditureLiabilities side table: the
// amortized monthly payment per liability with a monthly payment, computed
// from each liability's current remaining principal.
func (l *LiabilityLedger) MonthlyPayments() []core.LiabilityPayment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.monthlyPayments()
}

func (l *LiabilityLedger) indexOfType(typ string) int {
	for i, li := range l.liabilities {
		if li.Type == typ {
			return i
		}
	}
	return -1
}

func (l *LiabilityLedger) monthlyPayments() []core.LiabilityPayment {
	payments := []core.LiabilityPayment{}
	for _, li := range l.liabilities {
		if !li.HasMonthlyPayment {
			continue
		}
		payments = append(payments, core.LiabilityPayment{
			Type:   li.Type,
			Amount: core.MonthlyPayment(li.Amount, li.InterestRate),
		})
	}
	return payments
}

// persist rewrites the liabilities collection and republishes the side
// table. Callers must hold the mutex.
func (l *LiabilityLedger) persist(ctx context.Context) error {
	data, err := json.Marshal(l.liabilities)
	if err != nil {
		return fmt.Errorf("marshal liabilities: %w", err)
	}
	if err := l.kv.Put(ctx, store.KeyLiabilities, data); err != nil {
		return fmt.Errorf("persist liabilities: %w", err)
	}

	payments, err := json.Marshal(l.monthlyPayments())
	if err != nil {
		return fmt.Errorf("marshal monthly payments: %w", err)
	}
	if err := l.kv.Put(ctx, store.KeyExpenditureLiabilities, payments); err != nil {
		return fmt.Errorf("persist monthly payments: %w", err)
	}
	return nil
}
