// Package apperr holds the domain error types returned by the catalog and ledger core.
// None of them is retryable.
package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError means an id does not resolve to a visible record
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ReferenceError means a referenced entity does not exist at write time
type ReferenceError struct {
	Entity string
	ID     uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referenced %s %d does not exist", e.Entity, e.ID)
}

// InsufficientStockError identifies the product whose stock cannot cover the request
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (id %d): available %d, requested %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

// ValidationError is raised for malformed input that reached the core
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Reference(entity string, id uint) error {
	return &ReferenceError{Entity: entity, ID: id}
}

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsReference(err error) bool {
	var target *ReferenceError
	return errors.As(err, &target)
}

func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsDomain reports whether err belongs to the taxonomy above
func IsDomain(err error) bool {
	return IsNotFound(err) || IsReference(err) || IsInsufficientStock(err) || IsValidation(err)
}
