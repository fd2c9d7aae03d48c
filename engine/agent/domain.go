package agent

import (
	"time"

	"github.com/orca-network/orca/engine/core"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Agent is a registry entry describing an executable agent service.
type Agent struct {
	ID                    core.ID   `json:"id"                      db:"id"`
	CreatorID             core.ID   `json:"creator_id"              db:"creator_id"`
	Name                  string    `json:"name"                    db:"name"`
	Description           string    `json:"description"             db:"description"`
	Category              string    `json:"category"                db:"category"`
	Status                Status    `json:"status"                  db:"status"`
	PricingType           string    `json:"pricing_type"            db:"pricing_type"`
	PriceDetails          core.Map  `json:"price_details"           db:"price_details"`
	APIEndpoint           string    `json:"api_endpoint"            db:"api_endpoint"`
	MaxConcurrentRequests int       `json:"max_concurrent_requests" db:"max_concurrent_requests"`
	CreatedAt             time.Time `json:"created_at"              db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"              db:"updated_at"`
}

// Filter narrows registry listings. Empty fields do not filter.
type Filter struct {
	Status   Status
	Category string
}

// Matches reports whether a passes the filter.
func (f Filter) Matches(a *Agent) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	return true
}
