package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Jotadose/palelu-app/internal/till"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	InitialCash decimal.Decimal `json:"initial_cash" validate:"min=0"`
}

type AddExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=3"`
	Category    string          `json:"category"`
}

type CloseSessionRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash" validate:"min=0"`
	Notes      string          `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SessionReportResponse is returned for both open sessions (live totals) and
// closed sessions (the frozen snapshot plus the count declaration).
type SessionReportResponse struct {
	SessionID   string          `json:"session_id"`
	Status      string          `json:"status"`
	OpenedBy    string          `json:"opened_by"`
	OpenedAt    string          `json:"opened_at"`
	InitialCash decimal.Decimal `json:"initial_cash"`
	Totals      till.Totals     `json:"totals"`
	OrderCount  int             `json:"order_count"`

	ClosedBy   *string          `json:"closed_by,omitempty"`
	ClosedAt   *string          `json:"closed_at,omitempty"`
	ActualCash *decimal.Decimal `json:"actual_cash,omitempty"`
	Difference *decimal.Decimal `json:"difference,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

type CloseSessionResponse struct {
	SessionID    string          `json:"session_id"`
	Status       string          `json:"status"`
	Totals       till.Totals     `json:"totals"`
	ActualCash   decimal.Decimal `json:"actual_cash"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	Difference   decimal.Decimal `json:"difference"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	AddedBy     string          `json:"added_by"`
	CreatedAt   string          `json:"created_at"`
}

type SessionHistoryResponse struct {
	Data  []SessionReportResponse `json:"data"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
