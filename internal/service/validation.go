package service

import (
	"fmt"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/pkg/validator"
)

// MaxPageLimit caps the page size of every listing
const MaxPageLimit = 100

// validate runs the struct tags and turns the first failure into a ValidationError
func validate(data interface{}) error {
	errs := validator.ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	msg := fmt.Sprintf("failed on tag '%s'", first.Tag)
	if first.Value != "" {
		msg = fmt.Sprintf("failed on tag '%s=%s'", first.Tag, first.Value)
	}
	return apperr.Validation(first.FailedField, msg)
}

// pageBounds checks page/limit and converts them to offset/limit
func pageBounds(page, limit int) (int, int, error) {
	if page < 1 {
		return 0, 0, apperr.Validation("page", "must be at least 1")
	}
	if limit < 1 || limit > MaxPageLimit {
		return 0, 0, apperr.Validation("limit", fmt.Sprintf("must be between 1 and %d", MaxPageLimit))
	}
	return (page - 1) * limit, limit, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
