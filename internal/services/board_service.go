package services

import (
	"fmt"
	"log"
	"time"

	"order_board/internal/metrics"
	"order_board/internal/models"
	"order_board/internal/repository"
)

// Notifier publishes order-change notifications after a successful mutation.
// Implemented by the redis notifier; a nil-safe no-op is fine for tests.
type Notifier interface {
	OrderChanged(orderID uint, oldStatus, newStatus string)
	BoardChanged()
}

// ProductionConsumer records the physical ingredient consumption of an order
// when its production completes. Implemented by StockService.
type ProductionConsumer interface {
	ConsumeForOrder(order *models.Order) error
}

type BoardService interface {
	Columns() (map[string][]models.Order, error)
	Move(orderID uint, from, to models.OrderStatus) (*models.Order, error)
	Advance(orderID uint) (*models.Order, error)
	StepBack(orderID uint) (*models.Order, error)
	Cancel(orderID uint) (*models.Order, error)
	Reorder(status models.OrderStatus, orderedIDs []uint) error
	MoveCard(orderID uint, from, to models.OrderStatus, dropIndex int) (*models.Order, error)
}

type boardService struct {
	orderRepo repository.OrderRepository
	consumer  ProductionConsumer
	notifier  Notifier
	metrics   *metrics.Registry
	now       func() time.Time
}

func NewBoardService(orderRepo repository.OrderRepository, consumer ProductionConsumer, notifier Notifier, reg *metrics.Registry) BoardService {
	return &boardService{
		orderRepo: orderRepo,
		consumer:  consumer,
		notifier:  notifier,
		metrics:   reg,
		now:       time.Now,
	}
}

// Columns returns the per-status ordered lists ready for rendering.
func (s *boardService) Columns() (map[string][]models.Order, error) {
	columns := make(map[string][]models.Order, len(models.BoardStatuses))
	for _, status := range models.BoardStatuses {
		orders, err := s.orderRepo.GetByStatus(string(status))
		if err != nil {
			return nil, err
		}
		columns[string(status)] = orders
		if s.metrics != nil {
			s.metrics.ColumnSize.WithLabelValues(string(status)).Set(float64(len(orders)))
		}
	}
	return columns, nil
}

// Move transitions one order to the target status, placing it at the end of
// the target column. The moved order's former column is re-densified in the
// same transaction.
func (s *boardService) Move(orderID uint, from, to models.OrderStatus) (*models.Order, error) {
	return s.MoveCard(orderID, from, to, -1)
}

func (s *boardService) Advance(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	current := models.OrderStatus(order.Status)
	next, ok := current.NextStatus()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no forward step", models.ErrInvalidTransition, current)
	}
	return s.Move(orderID, current, next)
}

func (s *boardService) StepBack(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	current := models.OrderStatus(order.Status)
	prev, ok := current.PreviousStatus()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no back step", models.ErrInvalidTransition, current)
	}
	return s.Move(orderID, current, prev)
}

func (s *boardService) Cancel(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	return s.Move(orderID, models.OrderStatus(order.Status), models.OrderCancelled)
}

// Reorder assigns position = index for the complete proposed ordering of one
// column. The payload must list exactly the orders currently in that column.
func (s *boardService) Reorder(status models.OrderStatus, orderedIDs []uint) error {
	start := s.now()

	current, err := s.orderRepo.GetByStatus(string(status))
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(current) {
		return fmt.Errorf("%w: got %d ids, column has %d orders", models.ErrInvalidReorder, len(orderedIDs), len(current))
	}
	inColumn := make(map[uint]bool, len(current))
	for _, o := range current {
		inColumn[o.ID] = true
	}
	seen := make(map[uint]bool, len(orderedIDs))
	updates := make([]repository.PositionUpdate, 0, len(orderedIDs))
	for idx, id := range orderedIDs {
		if !inColumn[id] {
			return fmt.Errorf("%w: order %d is not in column %s", models.ErrInvalidReorder, id, status)
		}
		if seen[id] {
			return fmt.Errorf("%w: order %d listed twice", models.ErrInvalidReorder, id)
		}
		seen[id] = true
		updates = append(updates, repository.PositionUpdate{ID: id, Status: string(status), Position: idx})
	}

	if err := s.orderRepo.UpdatePositions(updates); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.Reorders.Inc()
		s.metrics.ReorderLatencySec.Observe(s.now().Sub(start).Seconds())
	}
	if s.notifier != nil {
		s.notifier.BoardChanged()
	}
	return nil
}

// MoveCard handles a cross-column drop: the order leaves its origin column,
// lands at dropIndex in the target column (end of column when dropIndex is
// negative or past the end), and both columns come out dense. An illegal
// transition is rejected before anything is written so the caller can snap
// the card back.
func (s *boardService) MoveCard(orderID uint, from, to models.OrderStatus, dropIndex int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if models.OrderStatus(order.Status) != from {
		return nil, fmt.Errorf("%w: expected %s, order is %s", models.ErrStatusConflict, from, order.Status)
	}
	if from == to {
		return s.repositionWithin(order, dropIndex)
	}
	if !from.CanTransitionTo(to) {
		if s.metrics != nil {
			s.metrics.TransitionsRejected.Inc()
		}
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, from, to)
	}

	origin, err := s.orderRepo.GetByStatus(string(from))
	if err != nil {
		return nil, err
	}
	target, err := s.orderRepo.GetByStatus(string(to))
	if err != nil {
		return nil, err
	}

	updates := make([]repository.PositionUpdate, 0, len(origin)+len(target))
	idx := 0
	for _, o := range origin {
		if o.ID == order.ID {
			continue
		}
		updates = append(updates, repository.PositionUpdate{ID: o.ID, Status: string(from), Position: idx})
		idx++
	}

	if dropIndex < 0 || dropIndex > len(target) {
		dropIndex = len(target)
	}
	idx = 0
	for _, o := range target {
		if idx == dropIndex {
			idx++
		}
		updates = append(updates, repository.PositionUpdate{ID: o.ID, Status: string(to), Position: idx})
		idx++
	}

	oldStatus := order.Status
	order.Status = string(to)
	order.Position = dropIndex
	s.stampProduction(order, from, to)

	if err := s.orderRepo.SaveWithPositions(order, updates); err != nil {
		return nil, err
	}

	if to == models.OrderReady && from == models.OrderPreparing && s.consumer != nil {
		if err := s.consumer.ConsumeForOrder(order); err != nil {
			// The transition already committed; the ledger can be corrected
			// with an adjustment movement.
			log.Printf("Failed to record production consumption for order %d: %v", order.ID, err)
		}
	}

	if s.metrics != nil {
		s.metrics.Transitions.Inc()
	}
	if s.notifier != nil {
		s.notifier.OrderChanged(order.ID, oldStatus, order.Status)
	}
	return order, nil
}

// repositionWithin moves a card inside its own column, shifting its siblings.
func (s *boardService) repositionWithin(order *models.Order, dropIndex int) (*models.Order, error) {
	column, err := s.orderRepo.GetByStatus(order.Status)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(column))
	for _, o := range column {
		if o.ID != order.ID {
			ids = append(ids, o.ID)
		}
	}
	if dropIndex < 0 || dropIndex > len(ids) {
		dropIndex = len(ids)
	}
	ids = append(ids[:dropIndex], append([]uint{order.ID}, ids[dropIndex:]...)...)

	if err := s.Reorder(models.OrderStatus(order.Status), ids); err != nil {
		return nil, err
	}
	order.Position = dropIndex
	return order, nil
}

// stampProduction records production timestamps on the forward flow. The
// start stamp survives resubmission and the corrective back step.
func (s *boardService) stampProduction(order *models.Order, from, to models.OrderStatus) {
	now := s.now()
	if to == models.OrderPreparing && order.ProductionStartedAt == nil {
		order.ProductionStartedAt = &now
	}
	if from == models.OrderPreparing && to == models.OrderReady {
		order.ProductionCompletedAt = &now
	}
}
