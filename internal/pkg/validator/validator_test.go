package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`
}

func TestValidate(t *testing.T) {
	t.Run("passes for a valid struct", func(t *testing.T) {
		err := Validate(sample{Name: "vp0", Port: 5000})
		assert.NoError(t, err)
	})

	t.Run("fails with the sentinel on a missing required field", func(t *testing.T) {
		err := Validate(sample{Port: 5000})

		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.ErrorContains(t, err, "'Name'")
	})

	t.Run("reports every failing field", func(t *testing.T) {
		err := Validate(sample{Port: 70000})

		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.ErrorContains(t, err, "'Name'")
		assert.ErrorContains(t, err, "'Port'")
	})
}
