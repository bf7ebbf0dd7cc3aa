// Package property provides the shared property-lead model and data access.
package property

import (
	"encoding/json"
	"time"

	"github.com/lmoral/captaleads/internal/agentstate"
)

// Property is one owner-sold lead inside a list. The source URL, when
// present, is the natural key for re-ingestion: at most one row per
// (list, URL). The raw payload snapshot is kept verbatim for audit.
type Property struct {
	ID        int64           `json:"id"`
	ListID    int64           `json:"list_id"`
	Price     int64           `json:"price"`
	Area      *int64          `json:"area,omitempty"`
	Bedrooms  *int64          `json:"bedrooms,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	OwnerName *string         `json:"owner_name,omitempty"`
	SourceURL *string         `json:"source_url,omitempty"`
	RawJSON   json.RawMessage `json:"raw_json"`
	CreatedAt time.Time       `json:"created_at"`
}

// Input is the canonical form a normalizer produces for one upload item.
type Input struct {
	Price     int64
	Area      *int64
	Bedrooms  *int64
	Phone     *string
	OwnerName *string
	SourceURL *string
	RawJSON   json.RawMessage
}

// Differs reports whether applying in would change the stored record.
// Used by the upsert engine to tell updates from duplicates.
func (p *Property) Differs(in Input) bool {
	if p.Price != in.Price {
		return true
	}
	if !eqInt64Ptr(p.Area, in.Area) || !eqInt64Ptr(p.Bedrooms, in.Bedrooms) {
		return true
	}
	if !eqStrPtr(p.Phone, in.Phone) || !eqStrPtr(p.OwnerName, in.OwnerName) {
		return true
	}
	return !eqRaw(p.RawJSON, in.RawJSON)
}

// WithAgentState is a property joined with one agent's overlay row.
// Missing overlay rows read as state "new" with an empty comment.
type WithAgentState struct {
	Property
	State   agentstate.State `json:"state"`
	Comment string           `json:"comment"`
}

func eqInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// eqRaw compares raw snapshots as bytes, treating nil and "{}" alike.
func eqRaw(a, b json.RawMessage) bool {
	return string(normalizeRaw(a)) == string(normalizeRaw(b))
}

func normalizeRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}
