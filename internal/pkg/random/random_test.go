package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_Intn(t *testing.T) {
	t.Run("Same seed gives the same sequence", func(t *testing.T) {
		first, second := New(42), New(42)

		for range 20 {
			assert.Equal(t, first.Intn(9), second.Intn(9))
		}
	})

	t.Run("Stays in range", func(t *testing.T) {
		source := New(7)

		for range 100 {
			n := source.Intn(5)
			assert.GreaterOrEqual(t, n, 0)
			assert.Less(t, n, 5)
		}
	})

	t.Run("Non-positive bound returns zero", func(t *testing.T) {
		assert.Equal(t, 0, New(1).Intn(0))
	})
}
