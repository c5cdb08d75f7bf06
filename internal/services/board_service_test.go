package services

import (
	"errors"
	"testing"

	"order_board/internal/models"
)

func seedOrders(repo *fakeOrderRepo, status models.OrderStatus, count int) []uint {
	ids := make([]uint, 0, count)
	for i := 0; i < count; i++ {
		order := &models.Order{CustomerName: "customer", Status: string(status), Position: i}
		repo.Create(order)
		ids = append(ids, order.ID)
	}
	return ids
}

// assertDense checks the density invariant: positions in a column form
// 0..n-1 with no duplicates or gaps.
func assertDense(t *testing.T, repo *fakeOrderRepo, status models.OrderStatus) {
	t.Helper()
	orders, _ := repo.GetByStatus(string(status))
	for i, o := range orders {
		if o.Position != i {
			t.Fatalf("column %s not dense: index %d has position %d", status, i, o.Position)
		}
	}
}

func newTestBoard(repo *fakeOrderRepo) BoardService {
	return NewBoardService(repo, nil, &recordingNotifier{}, nil)
}

func TestReorderAssignsDensePositions(t *testing.T) {
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderPending, 4)
	board := newTestBoard(repo)

	reversed := []uint{ids[3], ids[2], ids[1], ids[0]}
	if err := board.Reorder(models.OrderPending, reversed); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	assertDense(t, repo, models.OrderPending)
	orders, _ := repo.GetByStatus(string(models.OrderPending))
	for i, o := range orders {
		if o.ID != reversed[i] {
			t.Errorf("position %d: got order %d, want %d", i, o.ID, reversed[i])
		}
	}
}

func TestReorderRejectsMalformedPayloads(t *testing.T) {
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderPending, 3)
	seedOrders(repo, models.OrderPreparing, 1)
	board := newTestBoard(repo)

	tests := []struct {
		name string
		ids  []uint
	}{
		{"missing an order", []uint{ids[0], ids[1]}},
		{"duplicate id", []uint{ids[0], ids[1], ids[1]}},
		{"id from another column", []uint{ids[0], ids[1], 4}},
		{"unknown id", []uint{ids[0], ids[1], 99}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := board.Reorder(models.OrderPending, tc.ids)
			if !errors.Is(err, models.ErrInvalidReorder) {
				t.Fatalf("expected ErrInvalidReorder, got %v", err)
			}
			assertDense(t, repo, models.OrderPending)
		})
	}
}

func TestMoveCardAcrossColumns(t *testing.T) {
	// Order at position 2 of 4 in pending, dragged into empty preparing at
	// drop index 0.
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderPending, 4)
	board := newTestBoard(repo)

	moved, err := board.MoveCard(ids[2], models.OrderPending, models.OrderPreparing, 0)
	if err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}
	if moved.Status != string(models.OrderPreparing) || moved.Position != 0 {
		t.Errorf("moved order = %s/%d, want preparing/0", moved.Status, moved.Position)
	}
	if moved.ProductionStartedAt == nil {
		t.Error("production_started_at must be stamped on entering preparing")
	}

	pending, _ := repo.GetByStatus(string(models.OrderPending))
	if len(pending) != 3 {
		t.Fatalf("pending has %d orders, want 3", len(pending))
	}
	assertDense(t, repo, models.OrderPending)
	assertDense(t, repo, models.OrderPreparing)
}

func TestMoveCardIntoOccupiedColumn(t *testing.T) {
	repo := newFakeOrderRepo()
	pendingIDs := seedOrders(repo, models.OrderPending, 2)
	preparingIDs := seedOrders(repo, models.OrderPreparing, 3)
	board := newTestBoard(repo)

	if _, err := board.MoveCard(pendingIDs[0], models.OrderPending, models.OrderPreparing, 1); err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}

	assertDense(t, repo, models.OrderPending)
	assertDense(t, repo, models.OrderPreparing)

	preparing, _ := repo.GetByStatus(string(models.OrderPreparing))
	want := []uint{preparingIDs[0], pendingIDs[0], preparingIDs[1], preparingIDs[2]}
	for i, o := range preparing {
		if o.ID != want[i] {
			t.Errorf("preparing position %d: got order %d, want %d", i, o.ID, want[i])
		}
	}
}

func TestMoveCardRejectsIllegalDrop(t *testing.T) {
	// Dropping a delivered order straight into pending must be rejected and
	// leave everything where it was.
	repo := newFakeOrderRepo()
	deliveredIDs := seedOrders(repo, models.OrderDelivered, 2)
	seedOrders(repo, models.OrderPending, 2)
	board := newTestBoard(repo)

	_, err := board.MoveCard(deliveredIDs[1], models.OrderDelivered, models.OrderPending, 0)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	order, _ := repo.GetByID(deliveredIDs[1])
	if order.Status != string(models.OrderDelivered) || order.Position != 1 {
		t.Errorf("order moved despite rejection: %s/%d", order.Status, order.Position)
	}
	assertDense(t, repo, models.OrderDelivered)
	assertDense(t, repo, models.OrderPending)
}

func TestMoveCardRejectsStaleStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderPreparing, 1)
	board := newTestBoard(repo)

	// The client still believes the order is pending.
	_, err := board.MoveCard(ids[0], models.OrderPending, models.OrderPreparing, 0)
	if !errors.Is(err, models.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestMoveCardWithinColumn(t *testing.T) {
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderPending, 3)
	board := newTestBoard(repo)

	moved, err := board.MoveCard(ids[0], models.OrderPending, models.OrderPending, 2)
	if err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}
	if moved.Position != 2 {
		t.Errorf("moved position = %d, want 2", moved.Position)
	}
	assertDense(t, repo, models.OrderPending)

	orders, _ := repo.GetByStatus(string(models.OrderPending))
	want := []uint{ids[1], ids[2], ids[0]}
	for i, o := range orders {
		if o.ID != want[i] {
			t.Errorf("position %d: got order %d, want %d", i, o.ID, want[i])
		}
	}
}

func TestMoveStampsProductionTimestamps(t *testing.T) {
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderPending, 1)
	board := newTestBoard(repo)

	order, err := board.Move(ids[0], models.OrderPending, models.OrderPreparing)
	if err != nil {
		t.Fatalf("Move to preparing failed: %v", err)
	}
	started := order.ProductionStartedAt
	if started == nil {
		t.Fatal("production_started_at not stamped")
	}

	// Back to pending and forward again: the original stamp survives.
	if _, err := board.Move(ids[0], models.OrderPreparing, models.OrderPending); err != nil {
		t.Fatalf("Move back failed: %v", err)
	}
	order, err = board.Move(ids[0], models.OrderPending, models.OrderPreparing)
	if err != nil {
		t.Fatalf("second Move to preparing failed: %v", err)
	}
	if order.ProductionStartedAt == nil || !order.ProductionStartedAt.Equal(*started) {
		t.Error("production_started_at must survive resubmission")
	}

	order, err = board.Move(ids[0], models.OrderPreparing, models.OrderReady)
	if err != nil {
		t.Fatalf("Move to ready failed: %v", err)
	}
	if order.ProductionCompletedAt == nil {
		t.Error("production_completed_at not stamped on preparing -> ready")
	}
}

func TestAdvanceAndStepBack(t *testing.T) {
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderPending, 1)
	board := newTestBoard(repo)

	for _, want := range []models.OrderStatus{models.OrderPreparing, models.OrderReady, models.OrderDelivered} {
		order, err := board.Advance(ids[0])
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if order.Status != string(want) {
			t.Fatalf("status = %s, want %s", order.Status, want)
		}
	}
	if _, err := board.Advance(ids[0]); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("advancing past delivered must fail, got %v", err)
	}

	order, err := board.StepBack(ids[0])
	if err != nil {
		t.Fatalf("StepBack failed: %v", err)
	}
	if order.Status != string(models.OrderReady) {
		t.Errorf("status = %s, want ready", order.Status)
	}
}

func TestCancelFromTerminalRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	ids := seedOrders(repo, models.OrderDelivered, 1)
	board := newTestBoard(repo)

	if _, err := board.Cancel(ids[0]); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("cancelling a delivered order must fail, got %v", err)
	}
}
