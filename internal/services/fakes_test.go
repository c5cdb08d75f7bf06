package services

import (
	"errors"
	"sort"

	"order_board/internal/models"
	"order_board/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories backing the service tests.

type fakeOrderRepo struct {
	orders  map[uint]*models.Order
	nextID  uint
	failAll bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*models.Order)}
}

var errFakeStore = errors.New("store unavailable")

func (r *fakeOrderRepo) Create(order *models.Order) error {
	if r.failAll {
		return errFakeStore
	}
	r.nextID++
	order.ID = r.nextID
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	if r.failAll {
		return nil, errFakeStore
	}
	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetAll() ([]models.Order, error) {
	if r.failAll {
		return nil, errFakeStore
	}
	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *fakeOrderRepo) GetByStatus(status string) ([]models.Order, error) {
	if r.failAll {
		return nil, errFakeStore
	}
	out := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeOrderRepo) GetByStatuses(statuses []string) ([]models.Order, error) {
	if r.failAll {
		return nil, errFakeStore
	}
	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	out := make([]models.Order, 0)
	for _, o := range r.orders {
		if want[o.Status] {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *fakeOrderRepo) Update(order *models.Order) error {
	if r.failAll {
		return errFakeStore
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) Delete(id uint) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) CountByStatus(status string) (int64, error) {
	if r.failAll {
		return 0, errFakeStore
	}
	var count int64
	for _, o := range r.orders {
		if o.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) UpdatePositions(updates []repository.PositionUpdate) error {
	if r.failAll {
		return errFakeStore
	}
	for _, u := range updates {
		if o, ok := r.orders[u.ID]; ok {
			o.Status = u.Status
			o.Position = u.Position
		}
	}
	return nil
}

func (r *fakeOrderRepo) SaveWithPositions(order *models.Order, updates []repository.PositionUpdate) error {
	if r.failAll {
		return errFakeStore
	}
	if err := r.Update(order); err != nil {
		return err
	}
	return r.UpdatePositions(updates)
}

type fakeIngredientRepo struct {
	ingredients map[uint]*models.Ingredient
	movements   []models.StockMovement
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{ingredients: make(map[uint]*models.Ingredient)}
}

func (r *fakeIngredientRepo) Create(ingredient *models.Ingredient) error {
	copied := *ingredient
	r.ingredients[ingredient.ID] = &copied
	return nil
}

func (r *fakeIngredientRepo) GetByID(id uint) (*models.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, models.ErrIngredientNotFound
	}
	copied := *ing
	return &copied, nil
}

func (r *fakeIngredientRepo) GetAll() ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		out = append(out, *ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeIngredientRepo) Update(ingredient *models.Ingredient) error {
	copied := *ingredient
	r.ingredients[ingredient.ID] = &copied
	return nil
}

func (r *fakeIngredientRepo) ApplyMovement(movement *models.StockMovement) error {
	ing, ok := r.ingredients[movement.IngredientID]
	if !ok {
		return models.ErrIngredientNotFound
	}
	if movement.ID == "" {
		movement.ID = uuid.NewString()
	}
	ing.Quantity = ing.Quantity.Add(movement.Delta())
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeIngredientRepo) GetMovements(ingredientID uint) ([]models.StockMovement, error) {
	out := make([]models.StockMovement, 0)
	for _, m := range r.movements {
		if m.IngredientID == ingredientID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products []models.Product
}

func (r *fakeProductRepo) Create(product *models.Product) error {
	r.products = append(r.products, *product)
	return nil
}

func (r *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			copied := r.products[i]
			return &copied, nil
		}
	}
	return nil, errors.New("product not found")
}

func (r *fakeProductRepo) GetAll() ([]models.Product, error) {
	return append([]models.Product{}, r.products...), nil
}

func (r *fakeProductRepo) Update(product *models.Product) error { return nil }
func (r *fakeProductRepo) Delete(id uint) error                 { return nil }

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) OrderChanged(orderID uint, oldStatus, newStatus string) {
	n.events = append(n.events, oldStatus+"->"+newStatus)
}

func (n *recordingNotifier) BoardChanged() {
	n.events = append(n.events, "board")
}
