package optimistic

import "order_board/internal/models"

// DragSession models a drag gesture as a discrete event stream: DragStart,
// any number of DragOver events, then DragEnd. A gesture that never crosses a
// drop target produces no mutation at all; the card snaps back purely on the
// client side.
type DragSession struct {
	OrderID    uint
	FromStatus models.OrderStatus

	overStatus models.OrderStatus
	overIndex  int
	crossed    bool
	done       bool
}

// Drop is the committed outcome of a drag gesture.
type Drop struct {
	OrderID   uint
	From      models.OrderStatus
	To        models.OrderStatus
	DropIndex int
}

func DragStart(orderID uint, from models.OrderStatus) *DragSession {
	return &DragSession{OrderID: orderID, FromStatus: from, overIndex: -1}
}

// DragOver records the current hover target. index is the card slot under the
// pointer, or -1 when hovering the column itself (drop at end of column).
func (d *DragSession) DragOver(status models.OrderStatus, index int) {
	if d.done {
		return
	}
	d.overStatus = status
	d.overIndex = index
	d.crossed = true
}

// DragLeave clears the hover target; ending the gesture afterwards is a
// snap-back.
func (d *DragSession) DragLeave() {
	if d.done {
		return
	}
	d.crossed = false
	d.overIndex = -1
}

// DragEnd finishes the gesture. It returns the drop to commit, or ok=false
// for a cancelled gesture with no side effect.
func (d *DragSession) DragEnd() (Drop, bool) {
	d.done = true
	if !d.crossed {
		return Drop{}, false
	}
	return Drop{
		OrderID:   d.OrderID,
		From:      d.FromStatus,
		To:        d.overStatus,
		DropIndex: d.overIndex,
	}, true
}
