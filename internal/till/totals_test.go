package till_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/till"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCompute_WorkedExample(t *testing.T) {
	// Opening float 10000; cash sale 5000, transfer 3000, card 2000; expense 1500.
	orders := []model.Order{
		{Total: d(5000), PaymentMethod: model.PaymentCash},
		{Total: d(3000), PaymentMethod: model.PaymentTransfer},
		{Total: d(2000), PaymentMethod: model.PaymentCard},
	}
	movements := []model.CashMovement{
		{Type: model.MovementExpense, Amount: d(1500)},
	}

	totals := till.Compute(orders, movements, d(10000))

	assert.True(t, totals.CashTotal.Equal(d(5000)))
	assert.True(t, totals.TransferTotal.Equal(d(3000)))
	assert.True(t, totals.CardTotal.Equal(d(2000)))
	assert.True(t, totals.TotalSales.Equal(d(10000)))
	assert.True(t, totals.TotalExpenses.Equal(d(1500)))
	// 10000 + 5000 − 1500
	assert.True(t, totals.ExpectedCash.Equal(d(13500)))

	// Counting 13300 leaves a 200 shortage.
	difference := d(13300).Sub(totals.ExpectedCash)
	assert.True(t, difference.Equal(d(-200)))
}

func TestCompute_MethodTotalsSumToTotalSales(t *testing.T) {
	orders := []model.Order{
		{Total: decimal.RequireFromString("1250.50"), PaymentMethod: model.PaymentCash},
		{Total: decimal.RequireFromString("999.99"), PaymentMethod: model.PaymentCard},
		{Total: decimal.RequireFromString("430.01"), PaymentMethod: model.PaymentTransfer},
		{Total: decimal.RequireFromString("75.25"), PaymentMethod: model.PaymentCash},
	}

	totals := till.Compute(orders, nil, decimal.Zero)

	sum := totals.CashTotal.Add(totals.TransferTotal).Add(totals.CardTotal)
	assert.True(t, sum.Equal(totals.TotalSales), "method totals must sum to total sales")
	assert.True(t, totals.TotalSales.Equal(decimal.RequireFromString("2755.75")))
}

func TestCompute_UnknownMethodCountsAsCash(t *testing.T) {
	orders := []model.Order{
		{Total: d(100), PaymentMethod: "cheque"},
		{Total: d(50), PaymentMethod: ""},
	}

	totals := till.Compute(orders, nil, decimal.Zero)

	assert.True(t, totals.CashTotal.Equal(d(150)))
	assert.True(t, totals.TotalSales.Equal(d(150)))
	assert.True(t, totals.ExpectedCash.Equal(d(150)))
}

func TestCompute_EmptyLedgers(t *testing.T) {
	totals := till.Compute(nil, nil, d(5000))

	assert.True(t, totals.TotalSales.IsZero())
	assert.True(t, totals.TotalExpenses.IsZero())
	assert.True(t, totals.ExpectedCash.Equal(d(5000)), "expected cash falls back to the opening float")
}

func TestCompute_Deterministic(t *testing.T) {
	orders := []model.Order{
		{Total: d(700), PaymentMethod: model.PaymentCash},
		{Total: d(300), PaymentMethod: model.PaymentCard},
	}
	movements := []model.CashMovement{
		{Type: model.MovementExpense, Amount: d(120)},
	}

	a := till.Compute(orders, movements, d(1000))
	b := till.Compute(orders, movements, d(1000))

	assert.Equal(t, a, b)
}
