package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Append-only ledger of on-hand mutations. The ingredient quantity is never
// written directly; every change goes through a movement so that concurrent
// writers compose by addition instead of overwriting each other.
type StockMovement struct {
	ID           string          `json:"id" gorm:"size:36;primaryKey"` // uuid
	IngredientID uint            `json:"ingredient_id" gorm:"index;not null"`
	Type         string          `json:"type" gorm:"not null"` // in, out
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	Reason       string          `json:"reason"` // purchase, production, adjustment, loss
	CreatedAt    time.Time       `json:"created_at"`
}

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Delta returns the signed effect of the movement on the on-hand quantity.
func (m *StockMovement) Delta() decimal.Decimal {
	if m.Type == string(MovementOut) {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

const (
	ReasonPurchase   = "purchase"
	ReasonProduction = "production"
	ReasonAdjustment = "adjustment"
	ReasonLoss       = "loss"
)
