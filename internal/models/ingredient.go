package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"unique;not null"`
	Unit        string          `json:"unit" gorm:"not null"` // g, kg, ml, l, un
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	PackageSize decimal.Decimal `json:"package_size" gorm:"type:decimal(20,4)"`
	PackageUnit string          `json:"package_unit"`
	PackageCost decimal.Decimal `json:"package_cost" gorm:"type:decimal(20,4)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

// CostPerBaseUnit derives the unit cost from the package metadata.
// Zero when no package size is recorded.
func (i *Ingredient) CostPerBaseUnit() decimal.Decimal {
	if i.PackageSize.IsZero() {
		return decimal.Zero
	}
	return i.PackageCost.Div(i.PackageSize)
}
