package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash session states. A session transitions open → closed exactly once and
// is never reopened or deleted.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashSession brackets a period of sales activity between an explicit open
// and close of the till. At most one session may be open at a time — enforced
// by a partial unique index on (status) WHERE status = 'open', not just by
// application-level query discipline.
type CashSession struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OpenedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	InitialCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'open'"`
	OpenedAt    time.Time

	// Closing fields — nil while the session is open.
	ClosedBy     *uuid.UUID       `gorm:"type:uuid"`
	ClosedAt     *time.Time
	ActualCash   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Difference = ActualCash − ExpectedCash; positive = surplus, negative = shortage.
	Difference *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes      *string

	// Snapshot of the derived totals at close. Totals are never accumulated
	// incrementally while the session is open — the order and movement ledgers
	// are the source of truth and these columns are written once, at close.
	FinalCashTotal     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	FinalTransferTotal *decimal.Decimal `gorm:"type:decimal(12,2)"`
	FinalCardTotal     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	FinalTotalSales    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	FinalTotalExpenses *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Movements []CashMovement `gorm:"foreignKey:SessionID"`
}

// CashMovement is an immutable event in the till ledger. Movements are NEVER
// modified or deleted.
// Type: currently only "expense".
type CashMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type        string          `gorm:"type:varchar(20);not null;default:'expense'"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"not null"`
	Category    string
	AddedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

// MovementExpense is the only cash movement type recorded today. Kept as a
// constant so the totals calculator and tests agree on the literal.
const MovementExpense = "expense"
