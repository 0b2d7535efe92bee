package validator

import (
	"testing"

	"BeerBaseballApi/internal/assert"
)

func TestCheck(t *testing.T) {
	v := New()
	assert.Equal(t, v.Valid(), true)

	v.Check(true, "ok_field", "should not be recorded")
	assert.Equal(t, v.Valid(), true)

	v.Check(false, "bad_field", "must be provided")
	assert.Equal(t, v.Valid(), false)
	assert.Equal(t, v.Errors["bad_field"], "must be provided")
}

func TestAddErrorKeepsFirst(t *testing.T) {
	v := New()
	v.AddError("field", "first message")
	v.AddError("field", "second message")

	assert.Equal(t, v.Errors["field"], "first message")
}

func TestPermittedValue(t *testing.T) {
	assert.Equal(t, PermittedValue("top", "top", "bottom"), true)
	assert.Equal(t, PermittedValue("middle", "top", "bottom"), false)
	assert.Equal(t, PermittedValue(3, 1, 2, 3), true)
}

func TestUnique(t *testing.T) {
	assert.Equal(t, Unique([]int64{1, 2, 3}), true)
	assert.Equal(t, Unique([]int64{1, 2, 2}), false)
	assert.Equal(t, Unique([]int64{}), true)
}
