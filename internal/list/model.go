// Package list provides the lead-list domain model and data access.
package list

import "time"

// List is a curated, per-region collection of owner-sold property leads.
// Price is in minor currency units and scales with the lead count.
type List struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Price     int64     `json:"price"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
