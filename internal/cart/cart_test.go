package cart_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jotadose/palelu-app/internal/cart"
	"github.com/Jotadose/palelu-app/internal/model"
)

func product(name string, price int64, stock int) *model.Product {
	return &model.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func TestAdd_MergesExistingLine(t *testing.T) {
	c := cart.New()
	p := product("Coca 1.5L", 1800, 10)

	require.NoError(t, c.Add(p, 2))
	require.NoError(t, c.Add(p, 3))

	line := c.Lines[p.ID]
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.Subtotal().Equal(decimal.NewFromInt(9000)))
	assert.Len(t, c.Lines, 1)
}

func TestAdd_RejectsBeyondStock(t *testing.T) {
	c := cart.New()
	p := product("Yerba 500g", 2500, 3)

	require.NoError(t, c.Add(p, 2))
	err := c.Add(p, 2) // 4 > stock 3

	require.Error(t, err)
	// The failed add leaves the cart untouched.
	assert.Equal(t, 2, c.Lines[p.ID].Quantity)
}

func TestAdd_RejectsZeroQuantity(t *testing.T) {
	c := cart.New()
	p := product("Pan", 900, 5)

	assert.ErrorIs(t, c.Add(p, 0), cart.ErrBadQuantity)
	assert.True(t, c.Empty())
}

func TestSetQuantity(t *testing.T) {
	c := cart.New()
	p := product("Leche", 1200, 6)
	require.NoError(t, c.Add(p, 1))

	require.NoError(t, c.SetQuantity(p.ID, 4))
	assert.Equal(t, 4, c.Lines[p.ID].Quantity)

	assert.Error(t, c.SetQuantity(p.ID, 7), "cannot exceed known stock")
	assert.ErrorIs(t, c.SetQuantity(p.ID, 0), cart.ErrBadQuantity)
	assert.ErrorIs(t, c.SetQuantity(uuid.New(), 1), cart.ErrNotInCart)
}

func TestRemoveAndClear(t *testing.T) {
	c := cart.New()
	a := product("A", 100, 5)
	b := product("B", 200, 5)
	require.NoError(t, c.Add(a, 1))
	require.NoError(t, c.Add(b, 2))

	c.Remove(a.ID)
	assert.Len(t, c.Lines, 1)

	// Removing something absent is a no-op.
	c.Remove(a.ID)
	assert.Len(t, c.Lines, 1)

	c.Clear()
	assert.True(t, c.Empty())
}

func TestTotal(t *testing.T) {
	c := cart.New()
	a := product("A", 150, 10)
	b := product("B", 325, 10)
	require.NoError(t, c.Add(a, 2)) // 300
	require.NoError(t, c.Add(b, 3)) // 975

	assert.True(t, c.Total().Equal(decimal.NewFromInt(1275)))
}
