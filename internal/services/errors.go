package services

import (
	"errors"
	"fmt"
)

// Custom errors shared across services. Handlers map these onto HTTP
// status codes.
var (
	ErrValidation        = errors.New("validation failed")
	ErrOrderNotFound     = errors.New("order not found")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrStockItemNotFound = errors.New("stock item not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrShiftNotFound     = errors.New("shift not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLockConflict      = errors.New("resource is locked by a concurrent operation")
	ErrAlreadyPaid       = errors.New("order is already paid")
	ErrActiveShiftExists = errors.New("an active shift is already open")
	ErrNoActiveShift     = errors.New("no active shift")
	ErrDuplicateRecord   = errors.New("record already exists")
)

// InsufficientStockError reports which item ran short and by how much.
// It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ItemName  string
	Available float64
	Requested float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %.2f, available %.2f",
		e.ItemName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
