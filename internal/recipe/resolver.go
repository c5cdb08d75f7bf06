package recipe

import (
	"order_board/internal/models"

	"github.com/shopspring/decimal"
)

// Requirement is one ingredient demand per unit of product sold.
type Requirement struct {
	IngredientID uint
	Quantity     decimal.Decimal
}

// Resolver maps products to their ingredient requirements. It is a pure
// lookup over a snapshot loaded by the caller; it never touches the network
// and never fails, unknown products resolve to no requirements.
type Resolver struct {
	byProduct map[uint][]Requirement
}

func NewResolver(products []models.Product) *Resolver {
	byProduct := make(map[uint][]Requirement, len(products))
	for _, p := range products {
		reqs := make([]Requirement, 0, len(p.Ingredients))
		for _, pi := range p.Ingredients {
			reqs = append(reqs, Requirement{
				IngredientID: pi.IngredientID,
				Quantity:     pi.Quantity,
			})
		}
		byProduct[p.ID] = reqs
	}
	return &Resolver{byProduct: byProduct}
}

// IngredientsFor returns the recipe of the given product. An empty slice
// means no stock impact, not an error.
func (r *Resolver) IngredientsFor(productID uint) []Requirement {
	if r == nil {
		return nil
	}
	return r.byProduct[productID]
}

// Empty reports whether the resolver has no recipe data at all. The
// reconciliation engine uses this to switch to its stock-only fallback.
func (r *Resolver) Empty() bool {
	return r == nil || len(r.byProduct) == 0
}
