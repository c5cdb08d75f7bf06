package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	Name        string              `json:"name" gorm:"not null"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price" gorm:"type:decimal(20,4);not null"`
	Available   bool                `json:"available" gorm:"default:true"`
	Ingredients []ProductIngredient `json:"ingredients" gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `json:"deleted_at" gorm:"index"`
}

// ProductIngredient is the normalized recipe line: one ingredient requirement
// per unit of product sold. Produced once at the loading boundary so the core
// never deals with alternative nested shapes.
type ProductIngredient struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ProductID    uint            `json:"product_id" gorm:"index;not null"`
	IngredientID uint            `json:"ingredient_id" gorm:"index;not null"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
}
