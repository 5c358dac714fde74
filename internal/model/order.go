package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout. Orders with an unknown or missing
// method are bucketed as cash when totals are derived.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"
)

// OrderCompleted is the only order status written today. The column exists so
// a future refund flow can mark orders without schema changes.
const OrderCompleted = "completed"

// Order is the persisted record of a completed checkout.
// Created exactly once by the sale commit transaction; immutable thereafter —
// there is no edit or delete path.
type Order struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// OrderNumber is a display label derived from a timestamp suffix.
	// It is NOT guaranteed unique under high throughput; ID is the identity key.
	OrderNumber   string          `gorm:"type:varchar(20);index;not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	Notes         string
	SellerID      uuid.UUID  `gorm:"type:uuid;not null"`
	SessionID     *uuid.UUID `gorm:"type:uuid;index"`
	Status        string     `gorm:"type:varchar(20);not null;default:'completed'"`
	CreatedAt     time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the product name and unit price at the moment of sale,
// so later catalog edits never rewrite sales history.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
