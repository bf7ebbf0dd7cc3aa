// Package agentstate maintains each agent's private contact state on
// shared property leads. Rows are created lazily on first mutation;
// a missing row reads as state "new" with an empty comment.
package agentstate

import "time"

// State represents where a lead is in an agent's contact workflow.
type State string

const (
	StateNew       State = "new"
	StateContacted State = "contacted"
	StateCaptured  State = "captured"
	StateRejected  State = "rejected"
)

// ValidState returns true if s is a known agent state.
func ValidState(s string) bool {
	switch State(s) {
	case StateNew, StateContacted, StateCaptured, StateRejected:
		return true
	}
	return false
}

// AgentState is one agent's view of one property.
type AgentState struct {
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	State      State     `json:"state"`
	Comment    string    `json:"comment"`
	UpdatedAt  time.Time `json:"updated_at"`
}
