package listrequest

import (
	"fmt"

	"github.com/lmoral/captaleads/internal/list"
)

// Service processes list requests: approval creates the requested list.
type Service struct {
	requests *Repository
	lists    *list.Repository
}

// NewService creates a list-request service.
func NewService(requests *Repository, lists *list.Repository) *Service {
	return &Service{requests: requests, lists: lists}
}

// Approve transitions a pending request to approved, creating a list for
// the requested location. An empty name defaults to the location. Returns
// ErrAlreadyProcessed for non-pending requests.
func (s *Service) Approve(id int64, name string, price int64, currency string) (*Request, *list.List, error) {
	req, err := s.requests.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if IsTerminal(req.Status) {
		return nil, nil, ErrAlreadyProcessed
	}

	if name == "" {
		name = req.Location
	}

	l, err := s.lists.Create(name, req.Location, price, currency)
	if err != nil {
		return nil, nil, fmt.Errorf("creating list for request %d: %w", id, err)
	}

	if err := s.requests.markProcessed(id, StatusApproved, &l.ID); err != nil {
		return nil, nil, err
	}

	req, err = s.requests.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	return req, l, nil
}

// Reject transitions a pending request to rejected. Returns
// ErrAlreadyProcessed for non-pending requests.
func (s *Service) Reject(id int64) (*Request, error) {
	if err := s.requests.markProcessed(id, StatusRejected, nil); err != nil {
		return nil, err
	}
	return s.requests.GetByID(id)
}
