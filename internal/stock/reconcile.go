package stock

import (
	"order_board/internal/models"

	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StatusCritical   StockStatus = "critical"
	StatusLow        StockStatus = "low"
	StatusSufficient StockStatus = "sufficient"
	StatusUnused     StockStatus = "unused"
)

// Analysis is the per-ingredient reconciliation result: demand across the
// in-flight order set, projected balance, and the resulting classification.
type Analysis struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Demand       decimal.Decimal `json:"demand"`
	Balance      decimal.Decimal `json:"balance"`
	Status       StockStatus     `json:"status"`
}

// MissingIngredient records the quantity still needed for a specific action
// after comparing requirements against on-hand stock.
type MissingIngredient struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Required     decimal.Decimal `json:"required"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Missing      decimal.Decimal `json:"missing"`

	// EstimatedCost prices the missing quantity from the ingredient's
	// package metadata. Zero when no package size is recorded.
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// Engine classifies ingredient supply against aggregate demand. LowThreshold
// is expressed in each ingredient's own unit.
type Engine struct {
	LowThreshold decimal.Decimal
}

func NewEngine(lowThreshold decimal.Decimal) *Engine {
	return &Engine{LowThreshold: lowThreshold}
}

// Reconcile produces one Analysis per ingredient. Classification precedence:
// critical (negative balance), unused (no demand and nothing on hand), low
// (balance under threshold), sufficient.
func (e *Engine) Reconcile(ingredients []models.Ingredient, demand map[uint]decimal.Decimal) []Analysis {
	results := make([]Analysis, 0, len(ingredients))
	for _, ing := range ingredients {
		d := demand[ing.ID]
		balance := ing.Quantity.Sub(d)
		results = append(results, Analysis{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Unit:         ing.Unit,
			OnHand:       ing.Quantity,
			Demand:       d,
			Balance:      balance,
			Status:       e.classify(ing.Quantity, d, balance),
		})
	}
	return results
}

// ReconcileWithoutRecipes is the cold-start fallback for when no recipe data
// has been loaded: demand is reported as zero everywhere and ingredients are
// classified on on-hand quantity alone.
func (e *Engine) ReconcileWithoutRecipes(ingredients []models.Ingredient) []Analysis {
	results := make([]Analysis, 0, len(ingredients))
	for _, ing := range ingredients {
		status := StatusSufficient
		if ing.Quantity.Sign() <= 0 {
			status = StatusCritical
		} else if ing.Quantity.LessThan(e.LowThreshold) {
			status = StatusLow
		}
		results = append(results, Analysis{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Unit:         ing.Unit,
			OnHand:       ing.Quantity,
			Demand:       decimal.Zero,
			Balance:      ing.Quantity,
			Status:       status,
		})
	}
	return results
}

func (e *Engine) classify(onHand, demand, balance decimal.Decimal) StockStatus {
	switch {
	case balance.Sign() < 0:
		return StatusCritical
	case demand.IsZero() && onHand.IsZero():
		return StatusUnused
	case balance.LessThan(e.LowThreshold):
		return StatusLow
	default:
		return StatusSufficient
	}
}

// Shortfall lists the ingredients whose on-hand quantity does not cover the
// required map, with the positive quantity still missing. Ingredients fully
// covered are excluded. Callers must pass freshly fetched ingredients; see
// StockService.ShortfallForItems.
func Shortfall(required map[uint]decimal.Decimal, ingredients []models.Ingredient) []MissingIngredient {
	byID := make(map[uint]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	missing := make([]MissingIngredient, 0)
	for _, ing := range ingredients {
		req, ok := required[ing.ID]
		if !ok || !req.GreaterThan(ing.Quantity) {
			continue
		}
		short := req.Sub(ing.Quantity)
		missing = append(missing, MissingIngredient{
			IngredientID:  ing.ID,
			Name:          ing.Name,
			Unit:          ing.Unit,
			Required:      req,
			OnHand:        ing.Quantity,
			Missing:       short,
			EstimatedCost: ing.CostPerBaseUnit().Mul(short),
		})
	}

	// Requirements for ingredients missing from the ledger entirely are
	// short by their full amount.
	for id, req := range required {
		if _, ok := byID[id]; ok || !req.IsPositive() {
			continue
		}
		missing = append(missing, MissingIngredient{
			IngredientID: id,
			Required:     req,
			OnHand:       decimal.Zero,
			Missing:      req,
		})
	}
	return missing
}
