// Package web provides the HTTP API server for the lead marketplace.
package web

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lmoral/captaleads/internal/agentstate"
	"github.com/lmoral/captaleads/internal/auth"
	"github.com/lmoral/captaleads/internal/config"
	"github.com/lmoral/captaleads/internal/ingest"
	"github.com/lmoral/captaleads/internal/list"
	"github.com/lmoral/captaleads/internal/listrequest"
	"github.com/lmoral/captaleads/internal/logging"
	"github.com/lmoral/captaleads/internal/notify"
	"github.com/lmoral/captaleads/internal/property"
	"github.com/lmoral/captaleads/internal/subscription"
)

// Server is the API HTTP server. Admin routes are guarded by API keys,
// agent routes by bearer tokens.
type Server struct {
	lists     *list.Repository
	props     *property.Repository
	states    *agentstate.Repository
	subs      *subscription.Repository
	requests  *listrequest.Repository
	reqSvc    *listrequest.Service
	ingestSvc *ingest.Service
	keys      *auth.APIKeyStore
	tokens    *auth.TokenManager
	notifier  *notify.Notifier
	log       *slog.Logger
	mux       *http.ServeMux
}

// NewServer creates an API server backed by the given database.
func NewServer(db *sql.DB, cfg *config.Config) *Server {
	lists := list.NewRepository(db)
	props := property.NewRepository(db)
	requests := listrequest.NewRepository(db)

	s := &Server{
		lists:     lists,
		props:     props,
		states:    agentstate.NewRepository(db),
		subs:      subscription.NewRepository(db),
		requests:  requests,
		reqSvc:    listrequest.NewService(requests, lists),
		ingestSvc: ingest.NewService(lists, props, cfg.PricePerLead, slog.Default()),
		keys:      auth.NewAPIKeyStore(db),
		tokens:    auth.NewTokenManager(cfg.JWTSecret),
		notifier:  notify.New(cfg.SMTP, slog.Default()),
		log:       slog.Default(),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/upload", s.handleUpload)
	s.mux.HandleFunc("/api/lists", s.handleLists)
	s.mux.HandleFunc("/api/lists/", s.handleListRoute)
	s.mux.HandleFunc("/api/properties/", s.handlePropertyRoute)
	s.mux.HandleFunc("/api/requests", s.handleRequests)
	s.mux.HandleFunc("/api/requests/", s.handleRequestRoute)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server with request logging.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("starting api server", "addr", addr)
	return http.ListenAndServe(addr, logging.RequestLogger(s))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// requireAdmin validates a bearer API key. Writes the error response
// itself; callers return immediately on false.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	header := r.Header.Get("Authorization")
	if header == "" {
		apiError(w, "missing API key", http.StatusUnauthorized)
		return false
	}

	key, ok := auth.BearerToken(header)
	if !ok {
		apiError(w, "invalid authorization header", http.StatusUnauthorized)
		return false
	}

	valid, err := s.keys.Validate(key)
	if err != nil {
		apiError(w, "validating API key", http.StatusInternalServerError)
		return false
	}
	if !valid {
		apiError(w, "invalid API key", http.StatusUnauthorized)
		return false
	}
	return true
}

// requireAgent validates the bearer token and returns the agent user ID.
func (s *Server) requireAgent(w http.ResponseWriter, r *http.Request) (int64, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		apiError(w, "missing authorization", http.StatusUnauthorized)
		return 0, false
	}

	token, ok := auth.BearerToken(header)
	if !ok {
		apiError(w, "invalid authorization header", http.StatusUnauthorized)
		return 0, false
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		apiError(w, "invalid token", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// trimRoute strips a route prefix and any trailing slash from the path.
func trimRoute(path, prefix string) string {
	path = strings.TrimPrefix(path, prefix)
	path = strings.TrimPrefix(path, "/")
	return strings.TrimSuffix(path, "/")
}
