package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lmoral/captaleads/internal/list"
	"github.com/lmoral/captaleads/internal/property"
)

// ErrNoListTarget is returned when an upload names no list and the
// payload carries no location to resolve one from.
var ErrNoListTarget = errors.New("no target list: name and location required")

// Service runs the ingestion pipeline: detect format, normalize,
// dedup/upsert into the target list.
type Service struct {
	lists        *list.Repository
	props        *property.Repository
	pricePerLead int64
	log          *slog.Logger
}

// NewService creates an ingestion service. pricePerLead (minor units)
// drives list price recalculation after uploads; zero disables it.
func NewService(lists *list.Repository, props *property.Repository, pricePerLead int64, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{lists: lists, props: props, pricePerLead: pricePerLead, log: log}
}

// Result is the outcome of one upload.
type Result struct {
	ListID      int64    `json:"list_id"`
	ListName    string   `json:"list_name"`
	ListCreated bool     `json:"list_created,omitempty"`
	Format      Format   `json:"format"`
	Stats       Stats    `json:"stats"`
	Errors      []string `json:"errors,omitempty"`
}

// normalized is a decoded and format-dispatched payload.
type normalized struct {
	format   Format
	location string // only set for Fotocasa
	inputs   []property.Input
	errs     []string
}

// Ingest uploads a raw payload into an existing list. Partial success is
// normal: the result can report both written rows and per-item errors.
func (s *Service) Ingest(listID int64, payload []byte, actorID int64) (*Result, error) {
	l, err := s.lists.GetByID(listID)
	if err != nil {
		return nil, err
	}

	norm, err := s.normalize(payload)
	if err != nil {
		return nil, err
	}

	return s.finish(l, false, norm, actorID)
}

// IngestByName resolves the target list by (name, location) before
// ingesting; with createMissing the list is created when absent. When
// both name and location are empty, a Fotocasa payload's ubicacion
// supplies them; other formats fail with ErrNoListTarget.
func (s *Service) IngestByName(name, location string, createMissing bool, payload []byte, actorID int64) (*Result, error) {
	norm, err := s.normalize(payload)
	if err != nil {
		return nil, err
	}

	if name == "" && location == "" {
		if norm.format != FormatFotocasa || norm.location == "" {
			return nil, ErrNoListTarget
		}
		name, location = norm.location, norm.location
	}

	var l *list.List
	var created bool
	if createMissing {
		l, created, err = s.lists.FindOrCreate(name, location)
	} else {
		l, err = s.lists.FindByNameAndLocation(name, location)
	}
	if err != nil {
		return nil, err
	}

	return s.finish(l, created, norm, actorID)
}

func (s *Service) finish(l *list.List, created bool, norm *normalized, actorID int64) (*Result, error) {
	stats, itemErrs, err := s.upsert(l.ID, norm.inputs, norm.errs)
	if err != nil {
		return nil, err
	}

	s.log.Info("upload processed",
		"list_id", l.ID,
		"list", l.Name,
		"format", string(norm.format),
		"actor", actorID,
		"total", stats.Total,
		"new", stats.New,
		"updated", stats.Updated,
		"duplicates", stats.Duplicates,
		"errors", stats.Errors,
	)

	return &Result{
		ListID:      l.ID,
		ListName:    l.Name,
		ListCreated: created,
		Format:      norm.format,
		Stats:       stats,
		Errors:      itemErrs,
	}, nil
}

// normalize decodes the payload, detects its format and dispatches to the
// matching normalizer.
func (s *Service) normalize(payload []byte) (*normalized, error) {
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	norm := &normalized{format: Detect(decoded)}

	var err error
	switch norm.format {
	case FormatFotocasa:
		norm.location, norm.inputs, norm.errs, err = NormalizeFotocasa(payload)
	case FormatIdealista:
		norm.inputs, norm.errs, err = NormalizeIdealista(payload)
	default:
		norm.inputs, norm.errs, err = NormalizeSimplified(payload)
	}
	if err != nil {
		return nil, err
	}

	return norm, nil
}
