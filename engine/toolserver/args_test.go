package toolserver

import (
	"encoding/json"
	"testing"

	"github.com/orca-network/orca/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntArg(t *testing.T) {
	t.Run("Should return nil when absent", func(t *testing.T) {
		n, err := intArg(map[string]any{}, "limit")
		require.NoError(t, err)
		assert.Nil(t, n)
	})
	t.Run("Should accept integral numbers in every encoding", func(t *testing.T) {
		for _, raw := range []any{float64(7), 7, int64(7), json.Number("7"), " 7 "} {
			n, err := intArg(map[string]any{"limit": raw}, "limit")
			require.NoError(t, err)
			require.NotNil(t, n)
			assert.Equal(t, 7, *n)
		}
	})
	t.Run("Should reject fractional and non-numeric values", func(t *testing.T) {
		for _, raw := range []any{2.5, "seven", true} {
			_, err := intArg(map[string]any{"limit": raw}, "limit")
			assert.ErrorIs(t, err, core.ErrValidation)
		}
	})
	t.Run("Should clamp huge values", func(t *testing.T) {
		n, err := intArg(map[string]any{"limit": 1e18}, "limit")
		require.NoError(t, err)
		assert.Equal(t, maxIntArg, *n)
	})
}

func TestMapArg(t *testing.T) {
	t.Run("Should convert objects", func(t *testing.T) {
		m, err := mapArg(map[string]any{"p": map[string]any{"n": float64(1)}}, "p")
		require.NoError(t, err)
		assert.Equal(t, core.Map{"n": core.Float(1)}, m)
	})
	t.Run("Should decode JSON strings keeping integers exact", func(t *testing.T) {
		m, err := mapArg(map[string]any{"p": `{"n": 1}`}, "p")
		require.NoError(t, err)
		assert.Equal(t, core.Map{"n": core.Int(1)}, m)
	})
	t.Run("Should reject JSON arrays", func(t *testing.T) {
		_, err := mapArg(map[string]any{"p": `[1]`}, "p")
		assert.ErrorIs(t, err, core.ErrValidation)
	})
	t.Run("Should reject other types", func(t *testing.T) {
		_, err := mapArg(map[string]any{"p": 3.0}, "p")
		assert.ErrorIs(t, err, core.ErrValidation)
	})
}

func TestStringArg(t *testing.T) {
	t.Run("Should reject non-strings", func(t *testing.T) {
		_, err := stringArg(map[string]any{"goal": 1}, "goal")
		assert.ErrorIs(t, err, core.ErrValidation)
	})
}
