package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default = active
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1"`
	Description *string         `json:"description"`
	Category    string          `json:"category"    validate:"required,oneof=beverage snack grocery cleaning personal_care other"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	ImageURL    *string         `json:"image_url"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1"`
	Description *string         `json:"description"`
	Category    string          `json:"category"    validate:"required,oneof=beverage snack grocery cleaning personal_care other"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	ImageURL    *string         `json:"image_url"`
}

// ShrinkageRequest records a stock loss not tied to a sale.
type ShrinkageRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Reason   string `json:"reason"   validate:"required,oneof=expired damaged sample internal_use adjustment other"`
	Notes    string `json:"notes"`
}

// DescribeRequest asks the text-generation sidecar for marketing copy.
type DescribeRequest struct {
	Name     string `json:"name"     validate:"required,min=1"`
	Category string `json:"category" validate:"omitempty,oneof=beverage snack grocery cleaning personal_care other"`
}

type DescribeResponse struct {
	Description string `json:"description"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"created_at"`
}

type InventoryMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	Reason      string  `json:"reason,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	PrevStock   int     `json:"prev_stock"`
	NewStock    int     `json:"new_stock"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
