// Package report derives the read-side summaries: monthly balance, net
// worth, and the tiered expenditure totals. It never mutates anything.
package report

import (
	"github.com/shopspring/decimal"

	"patrimonio/internal/core"
	"patrimonio/internal/journal"
	"patrimonio/internal/ledger"
)

type Aggregator struct {
	assets       *ledger.AssetLedger
	liabilities  *ledger.LiabilityLedger
	incomes      *journal.IncomeJournal
	expenditures *journal.ExpenditureJournal
}

// TierTotals are the spending summaries for one period. Each tier is a
// non-decreasing superset of the previous: Essential counts static
// expenditures only, Tight adds dynamic/high, Light adds dynamic/low on top.
// Dynamic/medium contributes to no tier beyond the raw period total.
type TierTotals struct {
	Essential decimal.Decimal `json:"essentialTotal"`
	Tight     decimal.Decimal `json:"tightTotal"`
	Light     decimal.Decimal `json:"lightTotal"`
}

// AssetSummary mirrors the assets page summary panel.
type AssetSummary struct {
	TotalValue         decimal.Decimal `json:"totalValue"`
	TotalMonthlyIncome decimal.Decimal `json:"totalMonthlyIncome"`
}

// LiabilitySummary mirrors the liabilities page summary panel.
type LiabilitySummary struct {
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	MonthlyPaymentCount  int             `json:"monthlyPaymentCount"`
	TotalMonthlyPayments decimal.Decimal `json:"totalMonthlyPayments"`
}

// Overview is the dashboard view for a selected period. Balance is
// period-scoped; the remaining figures reflect current totals.
type Overview struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	Balance          decimal.Decimal `json:"balance"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
}

func NewAggregator(assets *ledger.AssetLedger, liabilities *ledger.LiabilityLedger, incomes *journal.IncomeJournal, expenditures *journal.ExpenditureJournal) *Aggregator {
	return &Aggregator{
		assets:       assets,
		liabilities:  liabilities,
		incomes:      incomes,
		expenditures: expenditures,
	}
}

// Balance is the monthly cash flow: income minus expenditure for the period.
func (a *Aggregator) Balance(year, month int) decimal.Decimal {
	return a.incomes.TotalForPeriod(year, month).Sub(a.expenditures.TotalForPeriod(year, month))
}

// NetWorth is total asset value minus total liability principal. It is a
// point-in-time figure, independent of any selected period.
func (a *Aggregator) NetWorth() decimal.Decimal {
	return a.totalAssets().Sub(a.totalLiabilities())
}

// Tiers computes the tiered expenditure totals for a period.
func (a *Aggregator) Tiers(year, month int) TierTotals {
	t := TierTotals{
		Essential: decimal.Zero,
		Tight:     decimal.Zero,
		Light:     decimal.Zero,
	}
	for _, e := range a.expenditures.ListForPeriod(year, month) {
		switch {
		case e.Class == core.SpendStatic:
			t.Essential = t.Essential.Add(e.Amount)
			t.Tight = t.Tight.Add(e.Amount)
			t.Light = t.Light.Add(e.Amount)
		case e.State == core.StateHigh:
			t.Tight = t.Tight.Add(e.Amount)
			t.Light = t.Light.Add(e.Amount)
		case e.State == core.StateLow:
			t.Light = t.Light.Add(e.Amount)
		}
	}
	return t
}

// Assets summarizes current asset holdings and their passive income.
func (a *Aggregator) Assets() AssetSummary {
	s := AssetSummary{TotalValue: decimal.Zero, TotalMonthlyIncome: decimal.Zero}
	for _, asset := range a.assets.List() {
		s.TotalValue = s.TotalValue.Add(asset.Value)
		if asset.IsMonthlyIncome && asset.MonthlyIncomeAmount != nil {
			s.TotalMonthlyIncome = s.TotalMonthlyIncome.Add(*asset.MonthlyIncomeAmount)
		}
	}
	return s
}

// Liabilities summarizes current debts and their monthly payment load.
func (a *Aggregator) Liabilities() LiabilitySummary {
	s := LiabilitySummary{TotalAmount: decimal.Zero, TotalMonthlyPayments: decimal.Zero}
	for _, li := range a.liabilities.List() {
		s.TotalAmount = s.TotalAmount.Add(li.Amount)
		if li.HasMonthlyPayment {
			s.MonthlyPaymentCount++
			s.TotalMonthlyPayments = s.TotalMonthlyPayments.Add(core.MonthlyPayment(li.Amount, li.InterestRate))
		}
	}
	return s
}

// Dashboard assembles the period-scoped balance with the current totals.
func (a *Aggregator) Dashboard(year, month int) Overview {
	return Overview{
		Year:             year,
		Month:            month,
		Balance:          a.Balance(year, month),
		NetWorth:         a.NetWorth(),
		TotalAssets:      a.totalAssets(),
		TotalLiabilities: a.totalLiabilities(),
	}
}

func (a *Aggregator) totalAssets() decimal.Decimal {
	total := decimal.Zero
	for _, asset := range a.assets.List() {
		total = total.Add(asset.Value)
	}
	return total
}

func (a *Aggregator) totalLiabilities() decimal.Decimal {
	total := decimal.Zero
	for _, li := range a.liabilities.List() {
		total = total.Add(li.Amount)
	}
	return total
}
