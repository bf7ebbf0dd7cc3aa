package subscription

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a user or subscription does not exist.
var ErrNotFound = errors.New("not found")

// Repository provides access to users and subscriptions.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a subscription repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser adds an agent account.
func (r *Repository) CreateUser(email, name string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	result, err := r.db.Exec("INSERT INTO users (email, name) VALUES (?, ?)", email, name)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetUser(id)
}

// GetUser returns a user by ID.
func (r *Repository) GetUser(id int64) (*User, error) {
	var u User
	err := r.db.QueryRow(
		"SELECT id, email, name, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %d: %w", id, err)
	}
	return &u, nil
}

// Subscribe upserts a (user, list) subscription with the given status and
// period end. Billing webhooks call this on checkout and renewal.
func (r *Repository) Subscribe(userID, listID int64, status SubStatus, periodEnd time.Time) (*Subscription, error) {
	_, err := r.db.Exec(
		`INSERT INTO subscriptions (user_id, list_id, status, period_end)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, list_id)
		 DO UPDATE SET status = excluded.status, period_end = excluded.period_end`,
		userID, listID, string(status), periodEnd.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return nil, fmt.Errorf("upserting subscription: %w", err)
	}

	var s Subscription
	var st string
	err = r.db.QueryRow(
		"SELECT id, user_id, list_id, status, period_end, created_at FROM subscriptions WHERE user_id = ? AND list_id = ?",
		userID, listID,
	).Scan(&s.ID, &s.UserID, &s.ListID, &st, &s.PeriodEnd, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("reading back subscription: %w", err)
	}
	s.Status = SubStatus(st)
	return &s, nil
}

// IsActive reports whether the user holds an active, unexpired
// subscription to the list. Gates all agent-facing property reads.
func (r *Repository) IsActive(userID, listID int64) (bool, error) {
	var one int
	err := r.db.QueryRow(
		`SELECT 1 FROM subscriptions
		 WHERE user_id = ? AND list_id = ? AND status = ? AND period_end > CURRENT_TIMESTAMP`,
		userID, listID, string(StatusActive),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking subscription: %w", err)
	}
	return true, nil
}

// ActiveSubscribers returns the notification-eligible recipients for a
// list: users with an active, unexpired subscription.
func (r *Repository) ActiveSubscribers(listID int64) ([]Subscriber, error) {
	rows, err := r.db.Query(
		`SELECT u.id, u.email, u.name
		 FROM subscriptions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.list_id = ? AND s.status = ? AND s.period_end > CURRENT_TIMESTAMP
		 ORDER BY u.id`,
		listID, string(StatusActive),
	)
	if err != nil {
		return nil, fmt.Errorf("querying subscribers: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var subs []Subscriber
	for rows.Next() {
		var s Subscriber
		if err := rows.Scan(&s.UserID, &s.Email, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning subscriber: %w", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscribers: %w", err)
	}

	return subs, nil
}
