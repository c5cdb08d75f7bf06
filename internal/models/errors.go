package models

import "errors"

var (
	// ErrInvalidTransition is returned when a requested status change is not
	// an edge of the fulfillment pipeline. Nothing is mutated.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStatusConflict is returned when the caller's view of the current
	// status no longer matches the stored one (another client moved the order).
	ErrStatusConflict = errors.New("order status changed by another client")

	// ErrInvalidReorder is returned for reorder payloads that do not list
	// exactly the orders of one column.
	ErrInvalidReorder = errors.New("reorder payload does not match column contents")

	ErrOrderNotFound      = errors.New("order not found")
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrInsufficientStock is returned when a stock-gated action (such as
	// duplicating an order) cannot be covered by current on-hand quantities.
	ErrInsufficientStock = errors.New("insufficient stock")
)
