package wallet

import (
	"time"

	"github.com/orca-network/orca/engine/core"
	"github.com/shopspring/decimal"
)

// Profile is the spending profile of a user. A null monthly budget means
// the user has no budget cap.
type Profile struct {
	ID            core.ID             `json:"id"             db:"id"`
	Role          string              `json:"role"           db:"role"`
	WalletBalance decimal.Decimal     `json:"wallet_balance" db:"wallet_balance"`
	MonthlyBudget decimal.NullDecimal `json:"monthly_budget" db:"monthly_budget"`
	CreatedAt     time.Time           `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"     db:"updated_at"`
}
