// Package till derives financial totals for a cash session from the order and
// movement ledgers. Totals are never stored incrementally — they are recomputed
// from the full ledgers on every call, so there is no running counter to drift
// or repair after a crash.
package till

import (
	"github.com/shopspring/decimal"

	"github.com/Jotadose/palelu-app/internal/model"
)

// Totals is the breakdown returned by Compute.
// Invariant: TotalSales == CashTotal + TransferTotal + CardTotal.
type Totals struct {
	CashTotal     decimal.Decimal `json:"cash_total"`
	TransferTotal decimal.Decimal `json:"transfer_total"`
	CardTotal     decimal.Decimal `json:"card_total"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	ExpectedCash  decimal.Decimal `json:"expected_cash"`
}

// Compute partitions orders by payment method, sums expense movements, and
// derives the cash the till should contain:
//
//	ExpectedCash = initialCash + CashTotal − TotalExpenses
//
// Orders with an unknown or missing payment method count toward the cash
// bucket. Pure and deterministic: same inputs, same output, no side effects,
// and no session-status special cases — the closing flow and the live
// dashboard call it identically.
func Compute(orders []model.Order, movements []model.CashMovement, initialCash decimal.Decimal) Totals {
	var t Totals

	for _, o := range orders {
		switch o.PaymentMethod {
		case model.PaymentTransfer:
			t.TransferTotal = t.TransferTotal.Add(o.Total)
		case model.PaymentCard:
			t.CardTotal = t.CardTotal.Add(o.Total)
		default:
			t.CashTotal = t.CashTotal.Add(o.Total)
		}
		t.TotalSales = t.TotalSales.Add(o.Total)
	}

	for _, m := range movements {
		if m.Type == model.MovementExpense {
			t.TotalExpenses = t.TotalExpenses.Add(m.Amount)
		}
	}

	t.ExpectedCash = initialCash.Add(t.CashTotal).Sub(t.TotalExpenses)
	return t
}
