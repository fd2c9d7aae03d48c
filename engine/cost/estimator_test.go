package cost

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEstimateGoal(t *testing.T) {
	t.Run("Should be deterministic for the same goal", func(t *testing.T) {
		first := EstimateGoal("summarize report")
		second := EstimateGoal("summarize report")
		assert.Equal(t, first.TokenCost, second.TokenCost)
		assert.True(t, first.TotalCost.Equal(second.TotalCost))
	})

	t.Run("Should derive tokens from the SHA-256 prefix", func(t *testing.T) {
		sum := sha256.Sum256([]byte("summarize report"))
		want := int64(100 + binary.BigEndian.Uint64(sum[:8])%900)
		assert.Equal(t, want, EstimateGoal("summarize report").TokenCost)
	})

	t.Run("Should keep token cost within bounds", func(t *testing.T) {
		goals := []string{"", " ", "a", "summarize report", "数据分析", "\x00\xff"}
		for i := 0; i < 500; i++ {
			goals = append(goals, fmt.Sprintf("goal-%d", i))
		}
		for _, goal := range goals {
			est := EstimateGoal(goal)
			assert.GreaterOrEqual(t, est.TokenCost, int64(100), goal)
			assert.LessOrEqual(t, est.TokenCost, int64(999), goal)
			assert.True(t, est.TotalCost.Equal(TotalForTokens(est.TokenCost)), goal)
		}
	})
}

func TestTotalForTokens(t *testing.T) {
	t.Run("Should round half away from zero to two decimals", func(t *testing.T) {
		cases := map[int64]string{
			100: "0.10",
			104: "0.10",
			105: "0.11",
			125: "0.13",
			994: "0.99",
			995: "1.00",
			999: "1.00",
		}
		for tokens, want := range cases {
			assert.Equal(t, want, TotalForTokens(tokens).StringFixed(2), "tokens %d", tokens)
		}
	})

	t.Run("Should equal tokens times the unit price", func(t *testing.T) {
		got := TotalForTokens(420)
		assert.True(t, decimal.RequireFromString("0.42").Equal(got))
	})
}
