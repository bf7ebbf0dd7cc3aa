package agentstate

import (
	"database/sql"
	"fmt"
)

// Repository provides access to per-(agent, property) overlay rows.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an agent-state repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the overlay row for (userID, propertyID), or the default
// row (state "new", empty comment) when none exists.
func (r *Repository) Get(userID, propertyID int64) (*AgentState, error) {
	s, err := scanState(r.db.QueryRow(
		"SELECT user_id, property_id, state, comment, updated_at FROM property_agent_state WHERE user_id = ? AND property_id = ?",
		userID, propertyID,
	))
	if err == sql.ErrNoRows {
		return &AgentState{
			UserID:     userID,
			PropertyID: propertyID,
			State:      StateNew,
			Comment:    "",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying agent state: %w", err)
	}
	return s, nil
}

// SetState upserts the state field and bumps the timestamp. The comment
// is left untouched on existing rows. Last write wins.
func (r *Repository) SetState(userID, propertyID int64, state State) (*AgentState, error) {
	if !ValidState(string(state)) {
		return nil, fmt.Errorf("invalid agent state: %s", state)
	}

	_, err := r.db.Exec(
		`INSERT INTO property_agent_state (user_id, property_id, state)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, property_id)
		 DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP`,
		userID, propertyID, string(state),
	)
	if err != nil {
		return nil, fmt.Errorf("upserting agent state: %w", err)
	}

	return r.Get(userID, propertyID)
}

// SetComment upserts the comment field and bumps the timestamp. The state
// is left untouched on existing rows (new rows default to "new").
func (r *Repository) SetComment(userID, propertyID int64, comment string) (*AgentState, error) {
	_, err := r.db.Exec(
		`INSERT INTO property_agent_state (user_id, property_id, comment)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, property_id)
		 DO UPDATE SET comment = excluded.comment, updated_at = CURRENT_TIMESTAMP`,
		userID, propertyID, comment,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting agent comment: %w", err)
	}

	return r.Get(userID, propertyID)
}

func scanState(row interface{ Scan(...interface{}) error }) (*AgentState, error) {
	var s AgentState
	var state string
	err := row.Scan(&s.UserID, &s.PropertyID, &state, &s.Comment, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.State = State(state)
	return &s, nil
}
