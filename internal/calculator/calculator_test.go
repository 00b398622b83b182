package calculator_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/straye-as/offer-workflow/internal/calculator"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{fmt.Sprintf("want %s, got %s", want, got)}, msgAndArgs...)...)
}

func TestCalculate_ScenarioA_PercentDownPayment(t *testing.T) {
	r := calculator.Calculate(calculator.Input{
		PurchasePrice:   "500000",
		DownPayment:     "20",
		DownPaymentMode: domain.AmountModePercent,
		FinanceType:     domain.FinanceTypeLoan,
	})

	assertDecimal(t, "100000", r.DownPaymentDollar)
	assertDecimal(t, "400000", r.LoanAmount)
	assert.Equal(t, "20.00", calculator.Format(r.PercentDown))
}

func TestCalculate_ScenarioB_CashForcesFullDownPayment(t *testing.T) {
	r := calculator.Calculate(calculator.Input{
		PurchasePrice:   "750000",
		DownPayment:     "10",
		DownPaymentMode: domain.AmountModePercent,
		FinanceType:     domain.FinanceTypeCash,
	})

	assertDecimal(t, "750000", r.DownPaymentDollar)
	assertDecimal(t, "0", r.LoanAmount)
	assertDecimal(t, "100", r.PercentDown)
}

func TestCalculate_CashRegardlessOfPriorState(t *testing.T) {
	inputs := []calculator.Input{
		{PurchasePrice: "300000", DownPayment: "999999", DownPaymentMode: domain.AmountModeDollar},
		{PurchasePrice: "300000", DownPayment: "", DownPaymentMode: domain.AmountModePercent},
		{PurchasePrice: "300000", DownPayment: "35", DownPaymentMode: domain.AmountModePercent, InitialDeposit: "5000", InitialDepositMode: domain.AmountModeDollar},
	}
	for i, in := range inputs {
		in.FinanceType = domain.FinanceTypeCash
		r := calculator.Calculate(in)
		assertDecimal(t, "300000", r.DownPaymentDollar, i)
		assertDecimal(t, "0", r.LoanAmount, i)
		assertDecimal(t, "100", r.PercentDown, i)
	}
}

func TestCalculate_ZeroPrice(t *testing.T) {
	r := calculator.Calculate(calculator.Input{
		PurchasePrice:   "0",
		DownPayment:     "50000",
		DownPaymentMode: domain.AmountModeDollar,
	})

	assert.Equal(t, "0.00", calculator.Format(r.PercentDown))
	assert.Equal(t, "0.00", calculator.Format(r.PercentInitialDeposit))
	assertDecimal(t, "0", r.LoanAmount)
}

func TestCalculate_EmptyInputs(t *testing.T) {
	r := calculator.Calculate(calculator.Input{})

	assert.Equal(t, "0.00", calculator.Format(r.PercentDown))
	assertDecimal(t, "0", r.LoanAmount)
	assertDecimal(t, "0", r.BalanceOfDownPayment)
}

func TestCalculate_DollarInputs(t *testing.T) {
	r := calculator.Calculate(calculator.Input{
		PurchasePrice:      "$650,000",
		InitialDeposit:     "$19,500",
		InitialDepositMode: domain.AmountModeDollar,
		DownPayment:        "130,000.00",
		DownPaymentMode:    domain.AmountModeDollar,
		FinanceType:        domain.FinanceTypeLoan,
	})

	assertDecimal(t, "650000", r.PurchasePrice)
	assertDecimal(t, "520000", r.LoanAmount)
	assert.Equal(t, "20.00", calculator.Format(r.PercentDown))
	assert.Equal(t, "3.00", calculator.Format(r.PercentInitialDeposit))
	assertDecimal(t, "110500", r.BalanceOfDownPayment)
}

func TestCalculate_NegativeValuesClampToZero(t *testing.T) {
	r := calculator.Calculate(calculator.Input{
		PurchasePrice:      "400000",
		InitialDeposit:     "50000",
		InitialDepositMode: domain.AmountModeDollar,
		DownPayment:        "10000",
		DownPaymentMode:    domain.AmountModeDollar,
	})
	assertDecimal(t, "0", r.BalanceOfDownPayment, "deposit exceeds down payment")

	r = calculator.Calculate(calculator.Input{
		PurchasePrice:   "400000",
		DownPayment:     "120",
		DownPaymentMode: domain.AmountModePercent,
	})
	assertDecimal(t, "0", r.LoanAmount, "down payment exceeds price")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"abc", "0"},
		{"1,234.56", "1234.56"},
		{"$ 99.", "99"},
		{"-500", "500"},
		{"1.2.3", "1.23"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assertDecimal(t, tt.want, calculator.ParseAmount(tt.in))
		})
	}
}

// For all P >= 0 and 0 <= d <= 100: downPaymentDollar = P*d/100 and loanAmount = P - downPaymentDollar >= 0
func TestCalculate_PercentProperty(t *testing.T) {
	prices := []int64{0, 1, 999, 100000, 333333, 1250000, 98765432}
	for _, p := range prices {
		for d := int64(0); d <= 100; d += 5 {
			r := calculator.Calculate(calculator.Input{
				PurchasePrice:   fmt.Sprint(p),
				DownPayment:     fmt.Sprint(d),
				DownPaymentMode: domain.AmountModePercent,
				FinanceType:     domain.FinanceTypeLoan,
			})

			wantDown := decimal.NewFromInt(p * d).Div(decimal.NewFromInt(100)).Round(2)
			assert.True(t, wantDown.Equal(r.DownPaymentDollar), "P=%d d=%d", p, d)
			assert.True(t, r.LoanAmount.Equal(decimal.NewFromInt(p).Sub(r.DownPaymentDollar)), "P=%d d=%d", p, d)
			assert.False(t, r.LoanAmount.IsNegative(), "P=%d d=%d", p, d)
		}
	}
}

func TestFromOffer(t *testing.T) {
	o := domain.Offer{
		PurchasePrice:   "500000",
		DownPayment:     "20",
		DownPaymentMode: domain.AmountModePercent,
		FinanceType:     domain.FinanceTypeFHAVA,
	}
	r := calculator.FromOffer(o)
	assertDecimal(t, "400000", r.LoanAmount)
}
