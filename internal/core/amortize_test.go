package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func assertWithin(t *testing.T, got, want, tolerance decimal.Decimal) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(tolerance) {
		t.Fatalf("got %s, want %s (±%s)", got, want, tolerance)
	}
}

func TestMonthlyPayment(t *testing.T) {
	cent := decimal.NewFromFloat(0.01)

	tests := []struct {
		name      string
		principal float64
		rate      float64
		want      float64
	}{
		{
			name:      "standard 30-year mortgage",
			principal: 100000,
			rate:      6,
			want:      599.55,
		},
		{
			name:      "zero rate degrades to principal over term",
			principal: 1000,
			rate:      0,
			want:      2.78,
		},
		{
			name:      "zero principal",
			principal: 0,
			rate:      5,
			want:      0,
		},
		{
			name:      "high-rate credit card balance",
			principal: 5000,
			rate:      15.99,
			want:      67.20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(decimal.NewFromFloat(tt.principal), decimal.NewFromFloat(tt.rate))
			assertWithin(t, got, decimal.NewFromFloat(tt.want), cent)
		})
	}
}

func TestMonthlyIncome(t *testing.T) {
	got := MonthlyIncome(decimal.NewFromInt(12000), decimal.NewFromInt(6))
	if !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("MonthlyIncome(12000, 6) = %s, want 60", got)
	}

	if !MonthlyIncome(decimal.NewFromInt(12000), decimal.Zero).IsZero() {
		t.Fatalf("zero rate should yield zero monthly income")
	}
}
