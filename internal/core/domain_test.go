package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestAssetValidate(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  error
	}{
		{
			name:  "valid plain asset",
			asset: Asset{Type: "Stocks", Value: dec(1000)},
			want:  nil,
		},
		{
			name:  "valid monthly income asset",
			asset: Asset{Type: "Bonds", Value: dec(5000), IsMonthlyIncome: true, InterestRate: decPtr(4.5)},
			want:  nil,
		},
		{
			name:  "missing type",
			asset: Asset{Type: "  ", Value: dec(1000)},
			want:  ErrMissingType,
		},
		{
			name:  "negative value",
			asset: Asset{Type: "Stocks", Value: dec(-1)},
			want:  ErrNegativeAmount,
		},
		{
			name:  "negative interest rate",
			asset: Asset{Type: "Stocks", Value: dec(10), IsMonthlyIncome: true, InterestRate: decPtr(-2)},
			want:  ErrNegativeRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIncomeValidate(t *testing.T) {
	tests := []struct {
		name   string
		income Income
		want   error
	}{
		{
			name:   "valid salary",
			income: Income{Type: IncomeSalary, Amount: dec(3000), Year: 2024, Month: 3},
			want:   nil,
		},
		{
			name:   "valid asset income",
			income: Income{Type: IncomeAsset, Amount: dec(50), AssetType: "Stocks", Year: 2024, Month: 3},
			want:   nil,
		},
		{
			name:   "asset income without asset type",
			income: Income{Type: IncomeAsset, Amount: dec(50), Year: 2024, Month: 3},
			want:   ErrMissingAssetType,
		},
		{
			name:   "unknown type",
			income: Income{Type: "bonus", Amount: dec(50), Year: 2024, Month: 3},
			want:   ErrInvalidIncomeType,
		},
		{
			name:   "month out of range",
			income: Income{Type: IncomeSalary, Amount: dec(50), Year: 2024, Month: 13},
			want:   ErrInvalidMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.income.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExpenditureValidate(t *testing.T) {
	tests := []struct {
		name string
		e    Expenditure
		want error
	}{
		{
			name: "valid personal static",
			e:    Expenditure{Kind: SpendPersonal, Name: "Groceries", Amount: dec(80), Class: SpendStatic, Year: 2024, Month: 3},
			want: nil,
		},
		{
			name: "valid other dynamic",
			e:    Expenditure{Kind: SpendOther, LiabilityType: "Mortgage", Amount: dec(600), Class: SpendDynamic, State: StateHigh, Year: 2024, Month: 3},
			want: nil,
		},
		{
			name: "personal without name",
			e:    Expenditure{Kind: SpendPersonal, Amount: dec(80), Class: SpendStatic, Year: 2024, Month: 3},
			want: ErrMissingName,
		},
		{
			name: "other without liability type",
			e:    Expenditure{Kind: SpendOther, Amount: dec(80), Class: SpendStatic, Year: 2024, Month: 3},
			want: ErrMissingLiabilityType,
		},
		{
			name: "dynamic without state",
			e:    Expenditure{Kind: SpendPersonal, Name: "Cinema", Amount: dec(15), Class: SpendDynamic, Year: 2024, Month: 3},
			want: ErrInvalidState,
		},
		{
			name: "unknown class",
			e:    Expenditure{Kind: SpendPersonal, Name: "Cinema", Amount: dec(15), Class: "flexible", Year: 2024, Month: 3},
			want: ErrInvalidClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

// Field names and numeric encoding are a persisted contract; optional
// fields must disappear from the JSON entirely when unset.
func TestAssetJSONShape(t *testing.T) {
	full := Asset{
		ID:              1700000000000,
		Type:            "Bonds",
		Value:           dec(5000),
		IsMonthlyIncome: true,
		InterestRate:    decPtr(6),
		Description:     "treasury",
	}
	mia := MonthlyIncome(full.Value, *full.InterestRate)
	full.MonthlyIncomeAmount = &mia

	data, err := json.Marshal(full)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1700000000000,"type":"Bonds","value":5000,"isMonthlyIncome":true,"interestRate":6,"monthlyIncomeAmount":25,"description":"treasury"}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\n got %s\nwant %s", data, want)
	}

	plain := Asset{ID: 2, Type: "Cash", Value: dec(100)}
	data, err = json.Marshal(plain)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"id":2,"type":"Cash","value":100,"isMonthlyIncome":false}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\n got %s\nwant %s", data, want)
	}
}
