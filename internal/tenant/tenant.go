package tenant

import (
	"time"
)

// Tenant is a customer carrier or broker account on the freight
// platform, managed from HQ.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DOTNumber string    `json:"dot_number,omitempty"`
	MCNumber  string    `json:"mc_number,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status constants
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// IsActive reports whether the tenant can currently use the platform
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}
