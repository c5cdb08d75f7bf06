package services

import (
	"fmt"

	"order_board/internal/metrics"
	"order_board/internal/models"
	"order_board/internal/recipe"
	"order_board/internal/repository"
	"order_board/internal/stock"

	"github.com/shopspring/decimal"
)

type StockService interface {
	Reconcile() ([]stock.Analysis, error)
	ShortfallForItems(items []models.OrderItem) ([]stock.MissingIngredient, error)
	ShoppingList() ([]stock.MissingIngredient, error)
	RecordMovement(ingredientID uint, movementType string, quantity decimal.Decimal, reason string) (*models.StockMovement, error)
	ConsumeForOrder(order *models.Order) error
	GetIngredients() ([]models.Ingredient, error)
	GetMovements(ingredientID uint) ([]models.StockMovement, error)
	CreateIngredient(ingredient *models.Ingredient) error
	GetProducts() ([]models.Product, error)
}

type stockService struct {
	ingredientRepo repository.IngredientRepository
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	engine         *stock.Engine
	notifier       Notifier
	metrics        *metrics.Registry

	// Statuses whose orders count toward projected demand. Preparing orders
	// keep reserving until their consumption is written to the ledger at
	// ready, so stock is counted exactly once.
	demandStatuses []string
}

func NewStockService(
	ingredientRepo repository.IngredientRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	engine *stock.Engine,
	includePreparing bool,
	notifier Notifier,
	reg *metrics.Registry,
) StockService {
	statuses := []string{string(models.OrderPending)}
	if includePreparing {
		statuses = append(statuses, string(models.OrderPreparing))
	}
	return &stockService{
		ingredientRepo: ingredientRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		engine:         engine,
		notifier:       notifier,
		metrics:        reg,
		demandStatuses: statuses,
	}
}

// Reconcile loads the current ledger, order set and recipes, and classifies
// every ingredient. With no recipe data loaded it degrades to the stock-only
// classification instead of failing.
func (s *stockService) Reconcile() ([]stock.Analysis, error) {
	ingredients, err := s.ingredientRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}

	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	resolver := recipe.NewResolver(products)

	var analyses []stock.Analysis
	if resolver.Empty() {
		analyses = s.engine.ReconcileWithoutRecipes(ingredients)
	} else {
		orders, err := s.orderRepo.GetByStatuses(s.demandStatuses)
		if err != nil {
			return nil, fmt.Errorf("failed to load orders: %w", err)
		}
		demand := stock.AggregateDemand(orders, resolver)
		analyses = s.engine.Reconcile(ingredients, demand)
	}

	if s.metrics != nil {
		s.metrics.ReconcileRuns.Inc()
		critical := 0
		for _, a := range analyses {
			if a.Status == stock.StatusCritical {
				critical++
			}
		}
		s.metrics.CriticalIngredients.Set(float64(critical))
	}
	return analyses, nil
}

// ShortfallForItems answers "what would this candidate set of line items
// still need". On-hand quantities are re-fetched immediately before the
// comparison; another client may have moved stock since the caller loaded
// its copy.
func (s *stockService) ShortfallForItems(items []models.OrderItem) ([]stock.MissingIngredient, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	required := stock.DemandForItems(items, recipe.NewResolver(products))

	ingredients, err := s.ingredientRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	return stock.Shortfall(required, ingredients), nil
}

// ShoppingList turns the aggregate demand of the in-flight order set into
// purchase quantities for everything not covered by on-hand stock.
func (s *stockService) ShoppingList() ([]stock.MissingIngredient, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	resolver := recipe.NewResolver(products)
	if resolver.Empty() {
		return []stock.MissingIngredient{}, nil
	}

	orders, err := s.orderRepo.GetByStatuses(s.demandStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	required := stock.AggregateDemand(orders, resolver)

	ingredients, err := s.ingredientRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	return stock.Shortfall(required, ingredients), nil
}

// RecordMovement appends a stock movement, the only sanctioned mutation path
// for on-hand quantities.
func (s *stockService) RecordMovement(ingredientID uint, movementType string, quantity decimal.Decimal, reason string) (*models.StockMovement, error) {
	if movementType != string(models.MovementIn) && movementType != string(models.MovementOut) {
		return nil, fmt.Errorf("invalid movement type %q", movementType)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("movement quantity must be positive, got %s", quantity)
	}

	movement := &models.StockMovement{
		IngredientID: ingredientID,
		Type:         movementType,
		Quantity:     quantity,
		Reason:       reason,
	}
	if err := s.ingredientRepo.ApplyMovement(movement); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.MovementsApplied.Inc()
	}
	if s.notifier != nil {
		s.notifier.BoardChanged()
	}
	return movement, nil
}

func (s *stockService) GetIngredients() ([]models.Ingredient, error) {
	return s.ingredientRepo.GetAll()
}

func (s *stockService) GetMovements(ingredientID uint) ([]models.StockMovement, error) {
	return s.ingredientRepo.GetMovements(ingredientID)
}

func (s *stockService) CreateIngredient(ingredient *models.Ingredient) error {
	return s.ingredientRepo.Create(ingredient)
}

func (s *stockService) GetProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// ConsumeForOrder writes out-movements for the recipe consumption of one
// order when its production completes.
func (s *stockService) ConsumeForOrder(order *models.Order) error {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	required := stock.DemandForItems(order.Items, recipe.NewResolver(products))

	for ingredientID, qty := range required {
		if !qty.IsPositive() {
			continue
		}
		_, err := s.RecordMovement(ingredientID, string(models.MovementOut), qty, models.ReasonProduction)
		if err != nil {
			return fmt.Errorf("failed to consume ingredient %d: %w", ingredientID, err)
		}
	}
	return nil
}
