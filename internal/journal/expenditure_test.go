package journal

import (
	"context"
	"errors"
	"testing"

	"patrimonio/internal/core"
	"patrimonio/internal/ledger"
	"patrimonio/internal/store"
)

func newExpenditureFixture(t *testing.T, kv store.KV) (*ExpenditureJournal, *ledger.LiabilityLedger) {
	t.Helper()
	ctx := context.Background()
	liabilities, err := ledger.NewLiabilityLedger(ctx, kv)
	if err != nil {
		t.Fatalf("new liability ledger: %v", err)
	}
	j, err := NewExpenditureJournal(ctx, kv, liabilities)
	if err != nil {
		t.Fatalf("new expenditure journal: %v", err)
	}
	return j, liabilities
}

func TestExpenditureRecordPaysDownLiability(t *testing.T) {
	ctx := context.Background()
	j, liabilities := newExpenditureFixture(t, newTestKV(t))

	liabilities.Add(ctx, core.Liability{Type: "Mortgage", Amount: dec(100000), InterestRate: dec(6)})

	e, err := j.Record(ctx, core.Expenditure{
		Kind:          core.SpendOther,
		LiabilityType: "Mortgage",
		Amount:        dec(600),
		Class:         core.SpendStatic,
		Year:          2024, Month: 3,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if e.ID == 0 || e.Timestamp == 0 {
		t.Fatalf("expected assigned id and timestamp, got %+v", e)
	}
	if v := liabilities.List()[0].Amount; !v.Equal(dec(99400)) {
		t.Fatalf("liability amount = %s, want 99400 after pay-down", v)
	}
}

func TestExpenditureRecordPersonalLeavesLiabilitiesAlone(t *testing.T) {
	ctx := context.Background()
	j, liabilities := newExpenditureFixture(t, newTestKV(t))

	liabilities.Add(ctx, core.Liability{Type: "Mortgage", Amount: dec(100000), InterestRate: dec(6)})

	// A stray liabilityType on a personal expenditure is dropped.
	if _, err := j.Record(ctx, core.Expenditure{
		Kind:          core.SpendPersonal,
		Name:          "groceries",
		LiabilityType: "Mortgage",
		Amount:        dec(80),
		Class:         core.SpendDynamic,
		State:         core.StateHigh,
		Year:          2024, Month: 3,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if v := liabilities.List()[0].Amount; !v.Equal(dec(100000)) {
		t.Fatalf("liability amount = %s, want untouched 100000", v)
	}
	if got := j.ListForPeriod(2024, 3)[0].LiabilityType; got != "" {
		t.Fatalf("liabilityType = %q, want empty on personal expenditure", got)
	}
}

func TestExpenditureRecordNormalization(t *testing.T) {
	ctx := context.Background()
	j, liabilities := newExpenditureFixture(t, newTestKV(t))

	liabilities.Add(ctx, core.Liability{Type: "Loan", Amount: dec(5000)})

	// "Other" spending drops the free-text name; static spending drops
	// the state.
	e, err := j.Record(ctx, core.Expenditure{
		Kind:          core.SpendOther,
		Name:          "should vanish",
		LiabilityType: "Loan",
		Amount:        dec(100),
		Class:         core.SpendStatic,
		State:         core.StateHigh,
		Year:          2024, Month: 3,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if e.Name != "" {
		t.Fatalf("name = %q, want cleared on other expenditure", e.Name)
	}
	if e.State != "" {
		t.Fatalf("state = %q, want cleared on static expenditure", e.State)
	}
}

func TestExpenditureRecordValidation(t *testing.T) {
	j, _ := newExpenditureFixture(t, newTestKV(t))

	cases := []struct {
		name string
		in   core.Expenditure
		want error
	}{
		{
			name: "personal without name",
			in:   core.Expenditure{Kind: core.SpendPersonal, Amount: dec(10), Class: core.SpendStatic, Year: 2024, Month: 3},
			want: core.ErrMissingName,
		},
		{
			name: "other without liability type",
			in:   core.Expenditure{Kind: core.SpendOther, Amount: dec(10), Class: core.SpendStatic, Year: 2024, Month: 3},
			want: core.ErrMissingLiabilityType,
		},
		{
			name: "dynamic without state",
			in:   core.Expenditure{Kind: core.SpendPersonal, Name: "x", Amount: dec(10), Class: core.SpendDynamic, Year: 2024, Month: 3},
			want: core.ErrInvalidState,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := j.Record(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if len(j.ListForPeriod(2024, 3)) != 0 {
		t.Fatal("declined records must not append events")
	}
}

func TestExpenditureDeleteRestoresLiability(t *testing.T) {
	ctx := context.Background()
	j, liabilities := newExpenditureFixture(t, newTestKV(t))

	liabilities.Add(ctx, core.Liability{Type: "Loan", Amount: dec(1000)})

	e, _ := j.Record(ctx, core.Expenditure{
		Kind: core.SpendOther, LiabilityType: "Loan", Amount: dec(400),
		Class: core.SpendStatic, Year: 2024, Month: 3,
	})
	if v := liabilities.List()[0].Amount; !v.Equal(dec(600)) {
		t.Fatalf("liability amount = %s, want 600", v)
	}

	if err := j.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if v := liabilities.List()[0].Amount; !v.Equal(dec(1000)) {
		t.Fatalf("liability amount = %s, want restored 1000", v)
	}
	if len(j.ListForPeriod(2024, 3)) != 0 {
		t.Fatal("event must be gone after delete")
	}

	// Deleting an unknown id is a no-op.
	if err := j.Delete(ctx, 99); err != nil {
		t.Fatalf("delete unknown id: %v", err)
	}
}

func TestExpenditureTotalsAndOptions(t *testing.T) {
	ctx := context.Background()
	j, liabilities := newExpenditureFixture(t, newTestKV(t))

	liabilities.Add(ctx, core.Liability{
		Type: "Mortgage", Amount: dec(100000), InterestRate: dec(6), HasMonthlyPayment: true,
	})
	liabilities.Add(ctx, core.Liability{Type: "Family loan", Amount: dec(2000)})

	j.Record(ctx, core.Expenditure{Kind: core.SpendPersonal, Name: "rent", Amount: dec(700), Class: core.SpendStatic, Year: 2024, Month: 3})
	j.Record(ctx, core.Expenditure{Kind: core.SpendPersonal, Name: "dining", Amount: dec(50), Class: core.SpendDynamic, State: core.StateLow, Year: 2024, Month: 3})
	j.Record(ctx, core.Expenditure{Kind: core.SpendPersonal, Name: "dining", Amount: dec(90), Class: core.SpendDynamic, State: core.StateLow, Year: 2024, Month: 4})

	if total := j.TotalForPeriod(2024, 3); !total.Equal(dec(750)) {
		t.Fatalf("march total = %s, want 750", total)
	}

	opts := j.LiabilityOptions()
	if len(opts) != 1 || opts[0].Type != "Mortgage" {
		t.Fatalf("options = %+v, want the single monthly-payment liability", opts)
	}

	amount, ok := j.DefaultAmount("Mortgage")
	if !ok || !amount.Equal(core.MonthlyPayment(dec(100000), dec(6))) {
		t.Fatalf("default amount = %s/%v, want the amortized payment", amount, ok)
	}
	if _, ok := j.DefaultAmount("Family loan"); ok {
		t.Fatal("liability without monthly payment must not suggest an amount")
	}
}
