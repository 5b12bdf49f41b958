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

// LiabilityBook is the slice of the liability ledger the expenditure
// journal needs.
type LiabilityBook interface {
	Deduct(ctx context.Context, typ string, amount decimal.Decimal) error
	Restore(ctx context.Context, typ string, amount decimal.Decimal) error
	MonthlyPayments() []core.LiabilityPayment
}

// ExpenditureJournal owns the expenditures collection. Recording an
// "other" expenditure pays down the linked liability; deleting it restores
// the recorded amount.
type ExpenditureJournal struct {
	mu           sync.Mutex
	kv           store.KV
	liabilities  LiabilityBook
	expenditures []core.Expenditure
	lastID       int64
	now          func() time.Time
}

func NewExpenditureJournal(ctx context.Context, kv store.KV, liabilities LiabilityBook) (*ExpenditureJournal, error) {
	j := &ExpenditureJournal{
		kv:           kv,
		liabilities:  liabilities,
		expenditures: []core.Expenditure{},
		now:          time.Now,
	}

	data, err := kv.Get(ctx, store.KeyExpenditures)
	if err == store.ErrNotFound {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load expenditures: %w", err)
	}

	if err := json.Unmarshal(data, &j.expenditures); err != nil {
		slog.WarnContext(ctx, "Malformed expenditures collection, starting empty", "error", err)
		j.expenditures = []core.Expenditure{}
		return j, nil
	}
	if j.expenditures == nil {
		j.expenditures = []core.Expenditure{}
	}

	now := j.now()
	for i, e := range j.expenditures {
		if e.Year == 0 || e.Month == 0 || e.Timestamp == 0 {
			j.expenditures[i].Year = now.Year()
			j.expenditures[i].Month = int(now.Month())
			j.expenditures[i].Timestamp = now.UnixMilli()
		}
		if e.ID > j.lastID {
			j.lastID = e.ID
		}
	}
	return j, nil
}

func (j *ExpenditureJournal) nextID() int64 {
	id := j.now().UnixMilli()
	if id <= j.lastID {
		id = j.lastID + 1
	}
	j.lastID = id
	return id
}

// Record validates and appends an expenditure event. "Other" expenditures
// pay down the linked liability through the liability ledger; the event is
// recorded even when no liability matches the link.
func (j *ExpenditureJournal) Record(ctx context.Context, e core.Expenditure) (core.Expenditure, error) {
	switch e.Kind {
	case core.SpendPersonal:
		e.LiabilityType = ""
	case core.SpendOther:
		e.Name = ""
	}
	if e.Class == core.SpendStatic {
		e.State = ""
	}
	if err := e.Validate(); err != nil {
		return core.Expenditure{}, err
	}

	j.mu.Lock()
	e.ID = j.nextID()
	e.Timestamp = j.now().UnixMilli()
	j.expenditures = append(j.expenditures, e)
	if err := j.persist(ctx); err != nil {
		j.expenditures = j.expenditures[:len(j.expenditures)-1]
		j.mu.Unlock()
		return core.Expenditure{}, err
	}
	j.mu.Unlock()

	if e.Kind == core.SpendOther {
		if err := j.liabilities.Deduct(ctx, e.LiabilityType, e.Amount); err != nil {
			return core.Expenditure{}, fmt.Errorf("deduct liability %s: %w", e.LiabilityType, err)
		}
	}

	slog.InfoContext(ctx, "Expenditure recorded",
		"id", e.ID, "kind", e.Kind, "class", e.Class, "amount", e.Amount,
		"year", e.Year, "month", e.Month)
	return e, nil
}

// Delete removes an expenditure event, restoring the linked liability with
// the event's original recorded amount first. An unknown id is a no-op.
func (j *ExpenditureJournal) Delete(ctx context.Context, id int64) error {
	j.mu.Lock()
	var found *core.Expenditure
	for i := range j.expenditures {
		if j.expenditures[i].ID == id {
			found = &j.expenditures[i]
			break
		}
	}
	if found == nil {
		j.mu.Unlock()
		return nil
	}
	e := *found
	j.mu.Unlock()

	if e.Kind == core.SpendOther {
		if err := j.liabilities.Restore(ctx, e.LiabilityType, e.Amount); err != nil {
			return fmt.Errorf("restore liability %s: %w", e.LiabilityType, err)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	kept := j.expenditures[:0]
	for _, x := range j.expenditures {
		if x.ID != id {
			kept = append(kept, x)
		}
	}
	j.expenditures = kept
	return j.persist(ctx)
}

// ListForPeriod returns the expenditures recorded under the given year and
// month in insertion order.
func (j *ExpenditureJournal) ListForPeriod(year, month int) []core.Expenditure {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := []core.Expenditure{}
	for _, e := range j.expenditures {
		if e.Year == year && e.Month == month {
			out = append(out, e)
		}
	}
	return out
}

// TotalForPeriod sums the amounts of the expenditures in the given period.
func (j *ExpenditureJournal) TotalForPeriod(year, month int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range j.ListForPeriod(year, month) {
		total = total.Add(e.Amount)
	}
	return total
}

// LiabilityOptions returns the published monthly-payment side table.
func (j *ExpenditureJournal) LiabilityOptions() []core.LiabilityPayment {
	return j.liabilities.MonthlyPayments()
}

// DefaultAmount prefills the expenditure amount with the liability's
// current monthly payment.
func (j *ExpenditureJournal) DefaultAmount(liabilityType string) (decimal.Decimal, bool) {
	for _, p := range j.liabilities.MonthlyPayments() {
		if p.Type == liabilityType {
			return p.Amount, true
		}
	}
	return decimal.Zero, false
}

func (j *ExpenditureJournal) persist(ctx context.Context) error {
	data, err := json.Marshal(j.expenditures)
	if err != nil {
		return fmt.Errorf("marshal expenditures: %w", err)
	}
	if err := j.kv.Put(ctx, store.KeyExpenditures, data); err != nil {
		return fmt.Errorf("persist expenditures: %w", err)
	}
	return nil
}
