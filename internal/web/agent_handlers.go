package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lmoral/captaleads/internal/agentstate"
	"github.com/lmoral/captaleads/internal/property"
)

// handlePropertyRoute routes /api/properties/{id}/* requests (agent).
func (s *Server) handlePropertyRoute(w http.ResponseWriter, r *http.Request) {
	path := trimRoute(r.URL.Path, "/api/properties")

	if strings.HasSuffix(path, "/state") {
		idStr := strings.TrimSuffix(path, "/state")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid property ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiSetState(w, r, id)
		return
	}

	if strings.HasSuffix(path, "/comment") {
		idStr := strings.TrimSuffix(path, "/comment")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid property ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiSetComment(w, r, id)
		return
	}

	apiError(w, "not found", http.StatusNotFound)
}

// authorizeProperty checks the agent token and the agent's subscription
// to the property's list. Writes error responses itself.
func (s *Server) authorizeProperty(w http.ResponseWriter, r *http.Request, propertyID int64) (int64, bool) {
	userID, ok := s.requireAgent(w, r)
	if !ok {
		return 0, false
	}

	p, err := s.props.GetByID(propertyID)
	if errors.Is(err, property.ErrNotFound) {
		apiError(w, "property not found", http.StatusNotFound)
		return 0, false
	}
	if err != nil {
		apiError(w, fmt.Sprintf("loading property: %v", err), http.StatusInternalServerError)
		return 0, false
	}

	active, err := s.subs.IsActive(userID, p.ListID)
	if err != nil {
		apiError(w, fmt.Sprintf("checking subscription: %v", err), http.StatusInternalServerError)
		return 0, false
	}
	if !active {
		apiError(w, "no active subscription for this list", http.StatusForbidden)
		return 0, false
	}

	return userID, true
}

// apiSetState records the calling agent's working state for a property.
func (s *Server) apiSetState(w http.ResponseWriter, r *http.Request, propertyID int64) {
	userID, ok := s.authorizeProperty(w, r, propertyID)
	if !ok {
		return
	}

	var req struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if !agentstate.ValidState(req.State) {
		apiError(w, "state must be new, contacted, captured, or rejected", http.StatusBadRequest)
		return
	}

	st, err := s.states.SetState(userID, propertyID, agentstate.State(req.State))
	if err != nil {
		apiError(w, fmt.Sprintf("setting state: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, st, http.StatusOK)
}

// apiSetComment records the calling agent's private note on a property.
func (s *Server) apiSetComment(w http.ResponseWriter, r *http.Request, propertyID int64) {
	userID, ok := s.authorizeProperty(w, r, propertyID)
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	st, err := s.states.SetComment(userID, propertyID, req.Comment)
	if err != nil {
		apiError(w, fmt.Sprintf("setting comment: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, st, http.StatusOK)
}
