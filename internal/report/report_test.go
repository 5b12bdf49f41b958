package report

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"patrimonio/internal/core"
	"patrimonio/internal/journal"
	"patrimonio/internal/ledger"
	"patrimonio/internal/store"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

type fixture struct {
	assets       *ledger.AssetLedger
	liabilities  *ledger.LiabilityLedger
	incomes      *journal.IncomeJournal
	expenditures *journal.ExpenditureJournal
	agg          *Aggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	kv, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	assets, err := ledger.NewAssetLedger(ctx, kv)
	if err != nil {
		t.Fatalf("new asset ledger: %v", err)
	}
	liabilities, err := ledger.NewLiabilityLedger(ctx, kv)
	if err != nil {
		t.Fatalf("new liability ledger: %v", err)
	}
	incomes, err := journal.NewIncomeJournal(ctx, kv, assets)
	if err != nil {
		t.Fatalf("new income journal: %v", err)
	}
	expenditures, err := journal.NewExpenditureJournal(ctx, kv, liabilities)
	if err != nil {
		t.Fatalf("new expenditure journal: %v", err)
	}
	return &fixture{
		assets:       assets,
		liabilities:  liabilities,
		incomes:      incomes,
		expenditures: expenditures,
		agg:          NewAggregator(assets, liabilities, incomes, expenditures),
	}
}

func TestTiers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	record := func(class core.ExpenditureClass, state core.SpendState, amount float64) {
		t.Helper()
		_, err := f.expenditures.Record(ctx, core.Expenditure{
			Kind:   core.SpendPersonal,
			Name:   "x",
			Amount: dec(amount),
			Class:  class,
			State:  state,
			Year:   2024, Month: 3,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	record(core.SpendStatic, "", 100)
	record(core.SpendDynamic, core.StateHigh, 50)
	record(core.SpendDynamic, core.StateMedium, 30)
	record(core.SpendDynamic, core.StateLow, 20)

	got := f.agg.Tiers(2024, 3)
	if !got.Essential.Equal(dec(100)) {
		t.Errorf("essential = %s, want 100", got.Essential)
	}
	if !got.Tight.Equal(dec(150)) {
		t.Errorf("tight = %s, want 150", got.Tight)
	}
	// Medium-state spending contributes to no tier.
	if !got.Light.Equal(dec(170)) {
		t.Errorf("light = %s, want 170", got.Light)
	}

	empty := f.agg.Tiers(2024, 4)
	if !empty.Essential.IsZero() || !empty.Tight.IsZero() || !empty.Light.IsZero() {
		t.Errorf("empty period tiers = %+v, want zeroes", empty)
	}
}

func TestBalanceAndNetWorth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.assets.Add(ctx, core.Asset{Type: "Stocks", Value: dec(10000)})
	f.liabilities.Add(ctx, core.Liability{Type: "Loan", Amount: dec(4000)})

	f.incomes.Record(ctx, core.Income{Type: core.IncomeSalary, Amount: dec(3000), Year: 2024, Month: 3})
	f.expenditures.Record(ctx, core.Expenditure{
		Kind: core.SpendPersonal, Name: "rent", Amount: dec(900),
		Class: core.SpendStatic, Year: 2024, Month: 3,
	})

	if b := f.agg.Balance(2024, 3); !b.Equal(dec(2100)) {
		t.Errorf("march balance = %s, want 2100", b)
	}
	if b := f.agg.Balance(2024, 4); !b.IsZero() {
		t.Errorf("april balance = %s, want 0", b)
	}
	// Net worth is a point-in-time figure, the same whichever period the
	// caller is looking at.
	if nw := f.agg.NetWorth(); !nw.Equal(dec(6000)) {
		t.Errorf("net worth = %s, want 6000", nw)
	}
}

func TestAssetLiabilitySummaries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.assets.Add(ctx, core.Asset{Type: "Bonds", Value: dec(12000), IsMonthlyIncome: true, InterestRate: decPtr(6)})
	f.assets.Add(ctx, core.Asset{Type: "Cash", Value: dec(500)})
	f.liabilities.Add(ctx, core.Liability{Type: "Mortgage", Amount: dec(100000), InterestRate: dec(6), HasMonthlyPayment: true})
	f.liabilities.Add(ctx, core.Liability{Type: "Family loan", Amount: dec(2000)})

	as := f.agg.Assets()
	if !as.TotalValue.Equal(dec(12500)) {
		t.Errorf("total value = %s, want 12500", as.TotalValue)
	}
	if !as.TotalMonthlyIncome.Equal(dec(60)) {
		t.Errorf("total monthly income = %s, want 60", as.TotalMonthlyIncome)
	}

	ls := f.agg.Liabilities()
	if !ls.TotalAmount.Equal(dec(102000)) {
		t.Errorf("total amount = %s, want 102000", ls.TotalAmount)
	}
	if ls.MonthlyPaymentCount != 1 {
		t.Errorf("payment count = %d, want 1", ls.MonthlyPaymentCount)
	}
	want := core.MonthlyPayment(dec(100000), dec(6))
	if !ls.TotalMonthlyPayments.Equal(want) {
		t.Errorf("total payments = %s, want %s", ls.TotalMonthlyPayments, want)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.assets.Add(ctx, core.Asset{Type: "Stocks", Value: dec(8000)})
	f.liabilities.Add(ctx, core.Liability{Type: "Loan", Amount: dec(3000)})
	f.incomes.Record(ctx, core.Income{Type: core.IncomeSalary, Amount: dec(2500), Year: 2024, Month: 5})

	o := f.agg.Dashboard(2024, 5)
	if o.Year != 2024 || o.Month != 5 {
		t.Errorf("period = %d/%d, want 2024/5", o.Year, o.Month)
	}
	if !o.Balance.Equal(dec(2500)) {
		t.Errorf("balance = %s, want 2500", o.Balance)
	}
	if !o.NetWorth.Equal(dec(5000)) {
		t.Errorf("net worth = %s, want 5000", o.NetWorth)
	}
	if !o.TotalAssets.Equal(dec(8000)) || !o.TotalLiabilities.Equal(dec(3000)) {
		t.Errorf("totals = %s/%s, want 8000/3000", o.TotalAssets, o.TotalLiabilities)
	}
}
