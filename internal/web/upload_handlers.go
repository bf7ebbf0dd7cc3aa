package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lmoral/captaleads/internal/ingest"
	"github.com/lmoral/captaleads/internal/list"
)

// 10 MB is far above any real scrape batch.
const maxUploadBytes = 10 << 20

// handleUpload ingests a payload without a list ID in the path (admin).
// The target list comes from name/location query parameters, or from a
// Fotocasa payload's own location. create=true creates a missing list,
// which is how the scraper automation runs unattended.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		apiError(w, "reading body", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	create := q.Get("create") == "true"

	result, err := s.ingestSvc.IngestByName(q.Get("name"), q.Get("location"), create, payload, 0)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	s.notifyNewLeads(result)
	apiJSON(w, result, http.StatusOK)
}

// apiUploadToList ingests a payload into a known list (admin).
func (s *Server) apiUploadToList(w http.ResponseWriter, r *http.Request, listID int64) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		apiError(w, "reading body", http.StatusBadRequest)
		return
	}

	result, err := s.ingestSvc.Ingest(listID, payload, 0)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	s.notifyNewLeads(result)
	apiJSON(w, result, http.StatusOK)
}

func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, list.ErrNotFound):
		apiError(w, "list not found", http.StatusNotFound)
	case errors.Is(err, ingest.ErrNoListTarget):
		apiError(w, err.Error(), http.StatusBadRequest)
	default:
		apiError(w, fmt.Sprintf("ingesting upload: %v", err), http.StatusInternalServerError)
	}
}

// notifyNewLeads emails active subscribers in the background when an
// upload added new properties. Best effort, never blocks the response.
func (s *Server) notifyNewLeads(result *ingest.Result) {
	if result.Stats.New == 0 {
		return
	}

	listID := result.ListID
	listName := result.ListName
	newCount := result.Stats.New

	go func() {
		subs, err := s.subs.ActiveSubscribers(listID)
		if err != nil {
			s.log.Warn("loading subscribers failed", "list_id", listID, "error", err)
			return
		}
		s.notifier.ListUpdated(subs, listName, newCount, listID)
	}()
}
