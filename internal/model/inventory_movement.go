package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory movement types.
const (
	InvMovementSale      = "sale"
	InvMovementShrinkage = "shrinkage"
)

// Shrinkage reasons, as offered by the inventory UI.
const (
	ShrinkageExpired     = "expired"
	ShrinkageDamaged     = "damaged"
	ShrinkageSample      = "sample"
	ShrinkageInternalUse = "internal_use"
	ShrinkageAdjustment  = "adjustment"
	ShrinkageOther       = "other"
)

// InventoryMovement records every stock change on a product: one row per sale
// line and one per shrinkage adjustment. Rows are immutable.
type InventoryMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName string    `gorm:"not null"` // snapshot — survives product deletion
	Type        string    `gorm:"type:varchar(20);not null"`
	Quantity    int       `gorm:"not null"` // negative = stock out
	Reason      string    `gorm:"type:varchar(30)"`
	Notes       string
	PrevStock   int `gorm:"not null"`
	NewStock    int `gorm:"not null"`
	// ReferenceID links to the originating order, when the movement is a sale.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}
