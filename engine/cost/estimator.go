package cost

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/shopspring/decimal"
)

const (
	MinTokens   = 100
	tokenSpread = 900
)

// TokenPrice is the monetary price of a single token.
var TokenPrice = decimal.New(1, -3)

type Estimate struct {
	TokenCost int64
	TotalCost decimal.Decimal
}

// EstimateGoal derives a deterministic cost for goal. The token cost is the
// first eight bytes of SHA-256(goal) read as a big-endian uint64, reduced
// into [100, 999]. The total cost is token_cost * 0.001 rounded to two
// decimals, half away from zero (0.125 -> 0.13).
func EstimateGoal(goal string) Estimate {
	sum := sha256.Sum256([]byte(goal))
	n := binary.BigEndian.Uint64(sum[:8])
	tokens := int64(MinTokens + n%tokenSpread)
	return Estimate{
		TokenCost: tokens,
		TotalCost: TotalForTokens(tokens),
	}
}

// TotalForTokens prices a token count.
func TotalForTokens(tokens int64) decimal.Decimal {
	return decimal.NewFromInt(tokens).Mul(TokenPrice).Round(2)
}
