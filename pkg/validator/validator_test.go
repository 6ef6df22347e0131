package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

type sample struct {
	Name  string `json:"name" validate:"required"`
	Stock int    `validate:"gte=0"`
	Lines []line `json:"lines,omitempty" validate:"dive"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, ValidateStruct(&sample{Name: "Mouse", Stock: 1}))

	errs := ValidateStruct(&sample{Stock: -1, Lines: []line{{Quantity: 1}, {Quantity: 0}}})
	require.Len(t, errs, 3)
	assert.Equal(t, "name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "Stock", errs[1].FailedField)
	assert.Equal(t, "gte", errs[1].Tag)
	assert.Equal(t, "0", errs[1].Value)
	assert.Equal(t, "lines[1].quantity", errs[2].FailedField)
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	errs := ValidateStruct("plain string")
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid", errs[0].Tag)
}
