package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date      string `form:"date"`       // YYYY-MM-DD; empty = today
	SessionID string `form:"session_id"` // restrict to one till session
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CheckoutRequest commits the caller's cart as one order.
// The line items come from the server-side cart, not the request body.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash transfer card"`
	Notes         string `json:"notes"          validate:"max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	OrderNumber   string             `json:"order_number"`
	Items         []SaleItemResponse `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes,omitempty"`
	SellerID      string             `json:"seller_id"`
	SessionID     *string            `json:"session_id"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"created_at"`
}
