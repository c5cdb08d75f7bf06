package stock

import (
	"order_board/internal/models"
	"order_board/internal/recipe"

	"github.com/shopspring/decimal"
)

// AggregateDemand computes the total ingredient consumption implied by the
// given orders. Cancelled orders contribute nothing; so do line items whose
// product has no recipe. Decimal accumulation is exact, so the result does
// not depend on input order.
func AggregateDemand(orders []models.Order, resolver *recipe.Resolver) map[uint]decimal.Decimal {
	demand := make(map[uint]decimal.Decimal)
	for _, order := range orders {
		if models.OrderStatus(order.Status) == models.OrderCancelled {
			continue
		}
		for _, item := range order.Items {
			qty := decimal.NewFromInt(int64(item.Quantity))
			for _, req := range resolver.IngredientsFor(item.ProductID) {
				demand[req.IngredientID] = demand[req.IngredientID].Add(req.Quantity.Mul(qty))
			}
		}
	}
	return demand
}

// DemandForItems computes the consumption of one candidate set of line items,
// independent of any order status. Used for stock-gating a specific action,
// such as duplicating an order.
func DemandForItems(items []models.OrderItem, resolver *recipe.Resolver) map[uint]decimal.Decimal {
	demand := make(map[uint]decimal.Decimal)
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		for _, req := range resolver.IngredientsFor(item.ProductID) {
			demand[req.IngredientID] = demand[req.IngredientID].Add(req.Quantity.Mul(qty))
		}
	}
	return demand
}
