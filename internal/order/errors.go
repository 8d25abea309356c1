package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrBadRequest wraps all shape/validation failures so handlers can map
	// them to a 400 without inspecting messages.
	ErrBadRequest = errors.New("invalid order payload")
)

// InsufficientStockError reports a stock rule violation, naming the product
// and how many units are left.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q: only %d units left", e.Name, e.Remaining)
}
