package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	t.Run("explicit range", func(t *testing.T) {
		from, to, err := resolveRange("2026-03-01", "2026-03-18")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-01", from.Format("2006-01-02"))
		assert.Equal(t, "2026-03-18", to.Format("2006-01-02"))
	})

	t.Run("no dates defaults to 30 days", func(t *testing.T) {
		from, to, err := resolveRange("", "")
		require.NoError(t, err)
		assert.Equal(t, to.AddDate(0, 0, -29), from)
	})

	t.Run("half-specified range rejected", func(t *testing.T) {
		_, _, err := resolveRange("2026-03-01", "")
		assert.ErrorIs(t, err, ErrInvalidDateRange)

		_, _, err = resolveRange("", "2026-03-18")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, _, err := resolveRange("2026-03-18", "2026-03-01")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("unparsable date rejected", func(t *testing.T) {
		_, _, err := resolveRange("18.03.2026", "2026-03-18")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}
