package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the single enumerated product category shared by the catalog
// and the sales grouping logic.
type Category string

const (
	CategoryBeverage     Category = "beverage"
	CategorySnack        Category = "snack"
	CategoryGrocery      Category = "grocery"
	CategoryCleaning     Category = "cleaning"
	CategoryPersonalCare Category = "personal_care"
	CategoryOther        Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryBeverage,
	CategorySnack,
	CategoryGrocery,
	CategoryCleaning,
	CategoryPersonalCare,
	CategoryOther,
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Product represents one catalog item. Stock is never negative: it is
// decremented only through the sale commit transaction or an explicit
// shrinkage adjustment, both of which run a guarded conditional update.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"index;not null"`
	Description *string
	Category    Category        `gorm:"type:varchar(30);not null;default:'other'"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	ImageURL    *string         `gorm:"column:image_url"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
