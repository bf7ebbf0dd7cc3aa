// Package subscription stores agent accounts and their per-list
// subscriptions. The core consumes this data — billing owns it: the
// payment collaborator creates and renews rows, the core only checks
// visibility and collects notification recipients.
package subscription

import "time"

// SubStatus is the billing status of a subscription.
type SubStatus string

const (
	StatusActive   SubStatus = "active"
	StatusCanceled SubStatus = "canceled"
	StatusPastDue  SubStatus = "past_due"
)

// User is an agent account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription grants one agent access to one list until period end.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ListID    int64     `json:"list_id"`
	Status    SubStatus `json:"status"`
	PeriodEnd time.Time `json:"period_end"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscriber is a notification recipient for a list.
type Subscriber struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
