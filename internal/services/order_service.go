package services

import (
	"errors"
	"fmt"

	"order_board/internal/models"
	"order_board/internal/repository"
	"order_board/internal/stock"

	"github.com/shopspring/decimal"
)

type OrderService interface {
	CreateOrder(order *models.Order) error
	GetOrderByID(id uint) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	DuplicateOrder(id uint) (*models.Order, []stock.MissingIngredient, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	stockSvc  StockService
	notifier  Notifier
}

func NewOrderService(orderRepo repository.OrderRepository, stockSvc StockService, notifier Notifier) OrderService {
	return &orderService{orderRepo: orderRepo, stockSvc: stockSvc, notifier: notifier}
}

// CreateOrder stores a new pending order at the end of the pending column.
func (s *orderService) CreateOrder(order *models.Order) error {
	if len(order.Items) == 0 {
		return errors.New("order has no items")
	}

	total := decimal.Zero
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("item quantity must be positive, got %d", item.Quantity)
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.TotalAmount = total
	order.Status = string(models.OrderPending)

	count, err := s.orderRepo.CountByStatus(order.Status)
	if err != nil {
		return err
	}
	order.Position = int(count)

	if err := s.orderRepo.Create(order); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.OrderChanged(order.ID, "", order.Status)
	}
	return nil
}

func (s *orderService) GetOrderByID(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// DuplicateOrder creates a fresh pending copy of an existing order, gated by
// a shortfall check against freshly fetched stock. When stock cannot cover
// the copy, nothing is created and the missing ingredients are returned.
func (s *orderService) DuplicateOrder(id uint) (*models.Order, []stock.MissingIngredient, error) {
	source, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	missing, err := s.stockSvc.ShortfallForItems(source.Items)
	if err != nil {
		return nil, nil, err
	}
	if len(missing) > 0 {
		return nil, missing, models.ErrInsufficientStock
	}

	copyItems := make([]models.OrderItem, 0, len(source.Items))
	for _, item := range source.Items {
		copyItems = append(copyItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	duplicate := &models.Order{
		CustomerName:    source.CustomerName,
		CustomerPhone:   source.CustomerPhone,
		DeliveryAddress: source.DeliveryAddress,
		Notes:           source.Notes,
		Items:           copyItems,
	}
	if err := s.CreateOrder(duplicate); err != nil {
		return nil, nil, err
	}
	return duplicate, nil, nil
}
