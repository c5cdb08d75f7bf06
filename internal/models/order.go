package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID                    uint            `json:"id" gorm:"primaryKey"`
	CustomerName          string          `json:"customer_name" gorm:"not null"`
	CustomerPhone         string          `json:"customer_phone"`
	Status                string          `json:"status" gorm:"default:'pending';index"` // pending, preparing, ready, delivered, cancelled
	Position              int             `json:"position" gorm:"not null;default:0"`
	Items                 []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount           decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,4)"`
	DeliveryDate          *time.Time      `json:"delivery_date"`
	DeliveryAddress       string          `json:"delivery_address"`
	Notes                 string          `json:"notes"`
	ProductionStartedAt   *time.Time      `json:"production_started_at"`
	ProductionCompletedAt *time.Time      `json:"production_completed_at"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,4);not null"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// BoardStatuses lists the statuses rendered as board columns, in pipeline order.
var BoardStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderDelivered}

// allowedTransitions encodes the fulfillment pipeline: one step forward, one
// step back for corrections, and cancellation from any non-terminal status.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderPending, OrderCancelled},
	OrderReady:     {OrderDelivered, OrderPreparing, OrderCancelled},
	OrderDelivered: {OrderReady},
	OrderCancelled: {},
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// NextStatus returns the forward step of the pipeline, or false for statuses
// with no forward step.
func (s OrderStatus) NextStatus() (OrderStatus, bool) {
	switch s {
	case OrderPending:
		return OrderPreparing, true
	case OrderPreparing:
		return OrderReady, true
	case OrderReady:
		return OrderDelivered, true
	default:
		return "", false
	}
}

// PreviousStatus returns the corrective back step, or false for pending and
// the terminal statuses.
func (s OrderStatus) PreviousStatus() (OrderStatus, bool) {
	switch s {
	case OrderPreparing:
		return OrderPending, true
	case OrderReady:
		return OrderPreparing, true
	case OrderDelivered:
		return OrderReady, true
	default:
		return "", false
	}
}

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}
