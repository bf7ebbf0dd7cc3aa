package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lmoral/captaleads/internal/list"
	"github.com/lmoral/captaleads/internal/property"
)

// handleLists routes /api/lists requests (admin).
func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.apiListLists(w)
	case http.MethodPost:
		s.apiCreateList(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListRoute routes /api/lists/{id}/* requests.
func (s *Server) handleListRoute(w http.ResponseWriter, r *http.Request) {
	path := trimRoute(r.URL.Path, "/api/lists")

	// /api/lists/{id}/properties — agent read with state overlay
	if strings.HasSuffix(path, "/properties") {
		idStr := strings.TrimSuffix(path, "/properties")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid list ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiListProperties(w, r, id)
		return
	}

	// /api/lists/{id}/upload — admin ingestion into a known list
	if strings.HasSuffix(path, "/upload") {
		idStr := strings.TrimSuffix(path, "/upload")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid list ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !s.requireAdmin(w, r) {
			return
		}
		s.apiUploadToList(w, r, id)
		return
	}

	// /api/lists/{id} — show or remove
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid list ID", http.StatusBadRequest)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.apiGetList(w, id)
	case http.MethodDelete:
		s.apiDeleteList(w, id)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// apiListLists returns all lists as JSON.
func (s *Server) apiListLists(w http.ResponseWriter) {
	lists, err := s.lists.List()
	if err != nil {
		apiError(w, fmt.Sprintf("listing lists: %v", err), http.StatusInternalServerError)
		return
	}
	if lists == nil {
		lists = make([]*list.List, 0)
	}
	apiJSON(w, lists, http.StatusOK)
}

// apiCreateList creates a list from a JSON body.
func (s *Server) apiCreateList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Price    int64  `json:"price"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Location) == "" {
		apiError(w, "name and location are required", http.StatusBadRequest)
		return
	}

	l, err := s.lists.Create(strings.TrimSpace(req.Name), strings.TrimSpace(req.Location), req.Price, req.Currency)
	if err != nil {
		apiError(w, fmt.Sprintf("creating list: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, l, http.StatusCreated)
}

// apiGetList returns a single list.
func (s *Server) apiGetList(w http.ResponseWriter, id int64) {
	l, err := s.lists.GetByID(id)
	if errors.Is(err, list.ErrNotFound) {
		apiError(w, "list not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("loading list: %v", err), http.StatusInternalServerError)
		return
	}
	apiJSON(w, l, http.StatusOK)
}

// apiDeleteList removes a list and its properties.
func (s *Server) apiDeleteList(w http.ResponseWriter, id int64) {
	err := s.lists.Delete(id)
	if errors.Is(err, list.ErrNotFound) {
		apiError(w, "list not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("deleting list: %v", err), http.StatusInternalServerError)
		return
	}
	apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
}

// apiListProperties returns a page of a list's properties with the
// calling agent's states applied. Requires an active subscription.
func (s *Server) apiListProperties(w http.ResponseWriter, r *http.Request, listID int64) {
	userID, ok := s.requireAgent(w, r)
	if !ok {
		return
	}

	if _, err := s.lists.GetByID(listID); err != nil {
		if errors.Is(err, list.ErrNotFound) {
			apiError(w, "list not found", http.StatusNotFound)
			return
		}
		apiError(w, fmt.Sprintf("loading list: %v", err), http.StatusInternalServerError)
		return
	}

	active, err := s.subs.IsActive(userID, listID)
	if err != nil {
		apiError(w, fmt.Sprintf("checking subscription: %v", err), http.StatusInternalServerError)
		return
	}
	if !active {
		apiError(w, "no active subscription for this list", http.StatusForbidden)
		return
	}

	opts := property.PageOptions{
		Cursor: r.URL.Query().Get("cursor"),
		State:  r.URL.Query().Get("state"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			apiError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		opts.Limit = limit
	}

	page, err := s.props.ListWithAgentState(userID, listID, opts)
	if err != nil {
		if errors.Is(err, property.ErrInvalidCursor) {
			apiError(w, "invalid cursor", http.StatusBadRequest)
			return
		}
		if strings.Contains(err.Error(), "invalid state filter") {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiError(w, fmt.Sprintf("listing properties: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, page, http.StatusOK)
}
