// Package listrequest handles agent requests for new regional lead lists.
//
// Valid status graph:
//
//	pending ──► approved (creates a list, records its id)
//	    │
//	    └─────► rejected
//
// approved and rejected are terminal states.
package listrequest

import (
	"errors"
	"fmt"
	"time"
)

// Status is the lifecycle state of a list request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// IsTerminal returns true once a request has been processed; terminal
// requests reject further transitions.
func IsTerminal(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is an agent's petition for a list covering a new region.
type Request struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes"`
	Status        Status    `json:"status"`
	CreatedListID *int64    `json:"created_list_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ErrNotFound is returned when a request does not exist.
var ErrNotFound = errors.New("list request not found")

// ErrAlreadyProcessed is returned when approving or rejecting a request
// that is no longer pending.
var ErrAlreadyProcessed = errors.New("list request already processed")
