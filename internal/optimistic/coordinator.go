package optimistic

import (
	"sort"
	"sync"

	"order_board/internal/metrics"
	"order_board/internal/models"
)

// MutationState is the lifecycle of one speculative mutation.
type MutationState string

const (
	StatePendingLocal MutationState = "pending-local"
	StateConfirmed    MutationState = "confirmed"
	StateRolledBack   MutationState = "rolled-back"
)

// Failure is the user-visible signal emitted when a speculative mutation is
// rolled back.
type Failure struct {
	MutationID uint64
	OrderIDs   []uint
	Reason     error
}

// Pending tracks one speculative mutation from local application until the
// authoritative write settles.
type Pending struct {
	ID       uint64
	OrderIDs []uint
	State    MutationState

	// snapshot holds the pre-mutation copy of every affected order; nil
	// value means the order did not exist locally before the mutation.
	snapshot map[uint]*models.Order
}

// Coordinator owns the client-session copy of the board. User actions mutate
// it synchronously before the authoritative write is confirmed; on failure the
// mutation is reverted to the last known-good state. All methods are safe for
// the UI event loop plus background refresh goroutines.
type Coordinator struct {
	mu       sync.Mutex
	orders   map[uint]*models.Order
	pending  map[uint64]*Pending
	inflight map[uint]int // order id -> number of unsettled mutations
	failures chan Failure
	metrics  *metrics.Registry
	nextID   uint64
}

// NewCoordinator builds an empty local board. reg may be nil when metrics are
// not collected for the session.
func NewCoordinator(reg *metrics.Registry) *Coordinator {
	return &Coordinator{
		orders:   make(map[uint]*models.Order),
		pending:  make(map[uint64]*Pending),
		inflight: make(map[uint]int),
		failures: make(chan Failure, 16),
		metrics:  reg,
	}
}

// Failures delivers rollback signals for the UI to surface. Signals are
// dropped, not blocked on, when nobody is listening.
func (c *Coordinator) Failures() <-chan Failure {
	return c.failures
}

// Apply runs the mutation against the local board state immediately and
// returns the pending record to settle later with Confirm or Fail.
func (c *Coordinator) Apply(orderIDs []uint, mutate func(orders map[uint]*models.Order)) *Pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	p := &Pending{
		ID:       c.nextID,
		OrderIDs: orderIDs,
		State:    StatePendingLocal,
		snapshot: make(map[uint]*models.Order, len(orderIDs)),
	}
	for _, id := range orderIDs {
		if existing, ok := c.orders[id]; ok {
			copied := *existing
			p.snapshot[id] = &copied
		} else {
			p.snapshot[id] = nil
		}
		c.inflight[id]++
	}

	mutate(c.orders)

	c.pending[p.ID] = p
	return p
}

// Confirm settles a mutation whose authoritative write succeeded. The local
// speculative state already matches; nothing to correct.
func (c *Coordinator) Confirm(p *Pending) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.State != StatePendingLocal {
		return
	}
	p.State = StateConfirmed
	c.settle(p)
}

// Fail rolls the mutation back to the pre-mutation snapshot and emits a
// failure signal. The board stays interactive; the next action is unaffected.
func (c *Coordinator) Fail(p *Pending, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.State != StatePendingLocal {
		return
	}
	p.State = StateRolledBack

	for id, snap := range p.snapshot {
		if snap == nil {
			delete(c.orders, id)
			continue
		}
		copied := *snap
		c.orders[id] = &copied
	}
	c.settle(p)

	if c.metrics != nil {
		c.metrics.OptimisticRollbacks.Inc()
	}

	select {
	case c.failures <- Failure{MutationID: p.ID, OrderIDs: p.OrderIDs, Reason: reason}:
	default:
	}
}

func (c *Coordinator) settle(p *Pending) {
	for _, id := range p.OrderIDs {
		if c.inflight[id] > 1 {
			c.inflight[id]--
		} else {
			delete(c.inflight, id)
		}
	}
	delete(c.pending, p.ID)
}

// Refresh reconciles an authoritative order set into the local state. Orders
// with an unsettled mutation keep their speculative status and position until
// the write settles; everything else is overwritten unconditionally, and
// local orders absent from the refresh are dropped.
func (c *Coordinator) Refresh(remote []models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := make(map[uint]*models.Order, len(remote))
	for i := range remote {
		order := remote[i]
		if c.inflight[order.ID] > 0 {
			if local, ok := c.orders[order.ID]; ok {
				fresh[order.ID] = local
				continue
			}
		}
		fresh[order.ID] = &order
	}
	// Keep locally created orders that have not reached the server yet.
	for id, local := range c.orders {
		if c.inflight[id] > 0 {
			if _, ok := fresh[id]; !ok {
				fresh[id] = local
			}
		}
	}
	c.orders = fresh
}

// Columns renders the local board state as per-status lists ordered by
// position. The result is a copy; callers cannot mutate coordinator state
// through it.
func (c *Coordinator) Columns() map[string][]models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	columns := make(map[string][]models.Order)
	for _, order := range c.orders {
		columns[order.Status] = append(columns[order.Status], *order)
	}
	for status := range columns {
		col := columns[status]
		sort.Slice(col, func(i, j int) bool {
			if col[i].Position != col[j].Position {
				return col[i].Position < col[j].Position
			}
			return col[i].ID < col[j].ID
		})
	}
	return columns
}

// Order returns a copy of one local order.
func (c *Coordinator) Order(id uint) (models.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	order, ok := c.orders[id]
	if !ok {
		return models.Order{}, false
	}
	return *order, true
}
