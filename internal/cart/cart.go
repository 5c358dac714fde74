// Package cart holds the per-cashier shopping cart. The cart is ephemeral —
// nothing is persisted to the catalog or the order ledger until checkout —
// but it survives page reloads by living in Redis keyed by user.
package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jotadose/palelu-app/internal/model"
)

var (
	ErrEmpty       = errors.New("cart is empty")
	ErrNotInCart   = errors.New("product is not in the cart")
	ErrBadQuantity = errors.New("quantity must be at least 1")
)

// Line is one cart entry. Name, UnitPrice and Stock snapshot the product as
// last seen by the cashier; Stock bounds the quantity at cart-build time
// (the commit transaction re-checks it against the live row).
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product id → line. The zero value is not usable; call New.
type Cart struct {
	Lines map[uuid.UUID]Line `json:"lines"`
}

func New() *Cart {
	return &Cart{Lines: make(map[uuid.UUID]Line)}
}

// Add puts qty units of p into the cart, merging with an existing line.
// Rejected — leaving the cart unchanged — when the resulting quantity would
// exceed the product's last-known stock.
func (c *Cart) Add(p *model.Product, qty int) error {
	if qty < 1 {
		return ErrBadQuantity
	}
	line, ok := c.Lines[p.ID]
	newQty := qty
	if ok {
		newQty = line.Quantity + qty
	}
	if newQty > p.Stock {
		return fmt.Errorf("max stock for %s: %d", p.Name, p.Stock)
	}
	c.Lines[p.ID] = Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Stock:     p.Stock,
		Quantity:  newQty,
	}
	return nil
}

// SetQuantity replaces the quantity of an existing line. qty must be between
// 1 and the line's known stock; use Remove to drop a line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	line, ok := c.Lines[productID]
	if !ok {
		return ErrNotInCart
	}
	if qty < 1 {
		return ErrBadQuantity
	}
	if qty > line.Stock {
		return fmt.Errorf("max stock for %s: %d", line.Name, line.Stock)
	}
	line.Quantity = qty
	c.Lines[productID] = line
	return nil
}

// Remove drops a line; removing an absent product is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	delete(c.Lines, productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = make(map[uuid.UUID]Line)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// Total sums the line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
