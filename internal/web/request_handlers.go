package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lmoral/captaleads/internal/listrequest"
)

// handleRequests routes /api/requests: agents file requests, admins
// list them.
func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !s.requireAdmin(w, r) {
			return
		}
		s.apiListRequests(w, r)
	case http.MethodPost:
		userID, ok := s.requireAgent(w, r)
		if !ok {
			return
		}
		s.apiCreateRequest(w, r, userID)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRequestRoute routes /api/requests/{id}/approve|reject (admin).
func (s *Server) handleRequestRoute(w http.ResponseWriter, r *http.Request) {
	path := trimRoute(r.URL.Path, "/api/requests")

	var action string
	switch {
	case strings.HasSuffix(path, "/approve"):
		action = "approve"
		path = strings.TrimSuffix(path, "/approve")
	case strings.HasSuffix(path, "/reject"):
		action = "reject"
		path = strings.TrimSuffix(path, "/reject")
	default:
		apiError(w, "not found", http.StatusNotFound)
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid request ID", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	if action == "approve" {
		s.apiApproveRequest(w, r, id)
		return
	}
	s.apiRejectRequest(w, id)
}

// apiListRequests returns list requests, optionally filtered by status.
func (s *Server) apiListRequests(w http.ResponseWriter, r *http.Request) {
	var status listrequest.Status
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		parsed, err := listrequest.ParseStatus(statusStr)
		if err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		status = parsed
	}

	requests, err := s.requests.List(status)
	if err != nil {
		apiError(w, fmt.Sprintf("listing requests: %v", err), http.StatusInternalServerError)
		return
	}
	if requests == nil {
		requests = make([]*listrequest.Request, 0)
	}
	apiJSON(w, requests, http.StatusOK)
}

// apiCreateRequest files a new list request for the calling agent.
func (s *Server) apiCreateRequest(w http.ResponseWriter, r *http.Request, userID int64) {
	var req struct {
		Location string `json:"location"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		apiError(w, "location is required", http.StatusBadRequest)
		return
	}

	created, err := s.requests.Create(userID, strings.TrimSpace(req.Location), req.Notes)
	if err != nil {
		apiError(w, fmt.Sprintf("creating request: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, created, http.StatusCreated)
}

// apiApproveRequest approves a pending request, creating its list.
func (s *Server) apiApproveRequest(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Name     string `json:"name"`
		Price    int64  `json:"price"`
		Currency string `json:"currency"`
	}
	if r.Body != nil {
		// Body is optional; ignore decode errors from an empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	request, created, err := s.reqSvc.Approve(id, strings.TrimSpace(req.Name), req.Price, req.Currency)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	apiJSON(w, map[string]interface{}{"request": request, "list": created}, http.StatusOK)
}

// apiRejectRequest rejects a pending request.
func (s *Server) apiRejectRequest(w http.ResponseWriter, id int64) {
	request, err := s.reqSvc.Reject(id)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	apiJSON(w, request, http.StatusOK)
}

func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, listrequest.ErrNotFound):
		apiError(w, "request not found", http.StatusNotFound)
	case errors.Is(err, listrequest.ErrAlreadyProcessed):
		apiError(w, "request already processed", http.StatusConflict)
	default:
		apiError(w, fmt.Sprintf("processing request: %v", err), http.StatusInternalServerError)
	}
}
