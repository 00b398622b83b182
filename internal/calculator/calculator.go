// Package calculator derives the financial figures of an offer from its price,
// deposit and down payment inputs. Results are computed on read and never stored.
package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/straye-as/offer-workflow/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Input holds the raw offer inputs the calculator depends on
type Input struct {
	PurchasePrice      string
	InitialDeposit     string
	InitialDepositMode domain.AmountMode
	DownPayment        string
	DownPaymentMode    domain.AmountMode
	FinanceType        domain.FinanceType
}

// Result holds the derived amounts. Every value is >= 0.
type Result struct {
	PurchasePrice         decimal.Decimal
	InitialDepositDollar  decimal.Decimal
	PercentInitialDeposit decimal.Decimal
	DownPaymentDollar     decimal.Decimal
	PercentDown           decimal.Decimal
	LoanAmount            decimal.Decimal
	BalanceOfDownPayment  decimal.Decimal
}

// FromOffer computes the derived amounts of an offer draft
func FromOffer(o domain.Offer) Result {
	return Calculate(Input{
		PurchasePrice:      o.PurchasePrice,
		InitialDeposit:     o.InitialDeposit,
		InitialDepositMode: o.InitialDepositMode,
		DownPayment:        o.DownPayment,
		DownPaymentMode:    o.DownPaymentMode,
		FinanceType:        o.FinanceType,
	})
}

// Calculate normalises deposit and down payment to dollars, then derives
// loan amount, percentages and balance of down payment.
func Calculate(in Input) Result {
	price := ParseAmount(in.PurchasePrice)

	deposit := toDollars(ParseAmount(in.InitialDeposit), in.InitialDepositMode, price)
	down := toDollars(ParseAmount(in.DownPayment), in.DownPaymentMode, price)

	r := Result{
		PurchasePrice:         price,
		InitialDepositDollar:  deposit,
		PercentInitialDeposit: percentOf(deposit, price),
		DownPaymentDollar:     down,
		PercentDown:           percentOf(down, price),
	}

	if in.FinanceType == domain.FinanceTypeCash {
		r.DownPaymentDollar = price
		r.PercentDown = hundred
	}

	r.LoanAmount = floor0(price.Sub(r.DownPaymentDollar))
	r.BalanceOfDownPayment = floor0(r.DownPaymentDollar.Sub(r.InitialDepositDollar))
	return r
}

// ParseAmount strips everything except digits and the first decimal point.
// Empty or unparseable input is zero.
func ParseAmount(s string) decimal.Decimal {
	var b strings.Builder
	seenPoint := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenPoint:
			seenPoint = true
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSuffix(b.String(), ".")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toDollars(value decimal.Decimal, mode domain.AmountMode, price decimal.Decimal) decimal.Decimal {
	if mode == domain.AmountModePercent {
		value = value.Mul(price).Div(hundred)
	}
	return floor0(value.Round(2))
}

func percentOf(part, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return floor0(part.Div(price).Mul(hundred).Round(2))
}

func floor0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Format renders an amount or percentage with two decimals, e.g. "20.00"
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
