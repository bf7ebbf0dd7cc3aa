package ingest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/lmoral/captaleads/internal/db"
	"github.com/lmoral/captaleads/internal/list"
	"github.com/lmoral/captaleads/internal/property"
)

func testService(t *testing.T) (*Service, *list.Repository, *property.Repository) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	lists := list.NewRepository(d)
	props := property.NewRepository(d)
	return NewService(lists, props, 500, nil), lists, props
}

func testList(t *testing.T, lists *list.Repository) *list.List {
	t.Helper()
	l, err := lists.Create("Valencia", "Valencia", 0, "EUR")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return l
}

func assertStats(t *testing.T, got, want Stats) {
	t.Helper()
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestIngestNewProperties(t *testing.T) {
	svc, lists, _ := testService(t)
	l := testList(t, lists)

	payload := `{"properties": [{"price": 250000, "m2": 90, "bedrooms": 3, "sourceUrl": "https://x/1"}]}`

	result, err := svc.Ingest(l.ID, []byte(payload), 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	assertStats(t, result.Stats, Stats{Total: 1, New: 1})
	if result.Format != FormatSimplified {
		t.Errorf("format = %q, want simplified", result.Format)
	}

	// One lead at 500 per lead.
	updated, err := lists.GetByID(l.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if updated.Price != 500 {
		t.Errorf("list price = %d, want 500", updated.Price)
	}
}

func TestIngestDuplicateUpload(t *testing.T) {
	svc, lists, _ := testService(t)
	l := testList(t, lists)

	payload := `{"properties": [{"price": 250000, "sourceUrl": "https://x/1"}]}`

	if _, err := svc.Ingest(l.ID, []byte(payload), 0); err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	result, err := svc.Ingest(l.ID, []byte(payload), 0)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	assertStats(t, result.Stats, Stats{Total: 1, Duplicates: 1})
}

func TestIngestUpdatesChangedProperty(t *testing.T) {
	svc, lists, props := testService(t)
	l := testList(t, lists)

	first := `{"properties": [{"price": 250000, "sourceUrl": "https://x/1"}]}`
	if _, err := svc.Ingest(l.ID, []byte(first), 0); err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	second := `{"properties": [{"price": 240000, "sourceUrl": "https://x/1"}]}`
	result, err := svc.Ingest(l.ID, []byte(second), 0)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	assertStats(t, result.Stats, Stats{Total: 1, Updated: 1})

	stored, err := props.GetBySourceURL(l.ID, "https://x/1")
	if err != nil {
		t.Fatalf("get by url: %v", err)
	}
	if stored.Price != 240000 {
		t.Errorf("price = %d, want 240000", stored.Price)
	}
}

func TestIngestBatchInternalDuplicate(t *testing.T) {
	svc, lists, _ := testService(t)
	l := testList(t, lists)

	payload := `{"properties": [
		{"price": 250000, "sourceUrl": "https://x/1"},
		{"price": 260000, "sourceUrl": "https://x/1"}
	]}`

	result, err := svc.Ingest(l.ID, []byte(payload), 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	assertStats(t, result.Stats, Stats{Total: 2, New: 1, Duplicates: 1})
}

func TestIngestAccumulatesItemErrors(t *testing.T) {
	svc, lists, _ := testService(t)
	l := testList(t, lists)

	payload := `{"properties": [
		{"m2": 80},
		{"price": 100000, "sourceUrl": "https://x/1"}
	]}`

	result, err := svc.Ingest(l.ID, []byte(payload), 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	assertStats(t, result.Stats, Stats{Total: 2, New: 1, Errors: 1})
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v, want one entry", result.Errors)
	}
}

func TestIngestWithoutURLAlwaysInserts(t *testing.T) {
	svc, lists, _ := testService(t)
	l := testList(t, lists)

	payload := `{"properties": [{"price": 100000}]}`

	for i := 0; i < 2; i++ {
		result, err := svc.Ingest(l.ID, []byte(payload), 0)
		if err != nil {
			t.Fatalf("ingest %d: %v", i+1, err)
		}
		assertStats(t, result.Stats, Stats{Total: 1, New: 1})
	}
}

func TestIngestUnknownList(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.Ingest(9999, []byte(`{"properties": []}`), 0)
	if !errors.Is(err, list.ErrNotFound) {
		t.Fatalf("err = %v, want list.ErrNotFound", err)
	}
}

func TestIngestByNameCreatesFromFotocasaLocation(t *testing.T) {
	svc, lists, _ := testService(t)

	payload := `{"ubicacion": "Valencia Capital", "viviendas": [
		{"precio": "120.000 €", "url": "https://fotocasa.es/vivienda/1"}
	]}`

	result, err := svc.IngestByName("", "", true, []byte(payload), 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !result.ListCreated {
		t.Error("expected list to be created")
	}
	if result.ListName != "Valencia Capital" {
		t.Errorf("list name = %q, want Valencia Capital", result.ListName)
	}
	assertStats(t, result.Stats, Stats{Total: 1, New: 1})

	if _, err := lists.FindByNameAndLocation("Valencia Capital", "Valencia Capital"); err != nil {
		t.Errorf("created list not found: %v", err)
	}
}

func TestIngestByNameWithoutTarget(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.IngestByName("", "", true, []byte(`{"properties": [{"price": 1}]}`), 0)
	if !errors.Is(err, ErrNoListTarget) {
		t.Fatalf("err = %v, want ErrNoListTarget", err)
	}
}

func TestIngestByNameMissingListWithoutCreate(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.IngestByName("Madrid", "Madrid", false, []byte(`{"properties": []}`), 0)
	if !errors.Is(err, list.ErrNotFound) {
		t.Fatalf("err = %v, want list.ErrNotFound", err)
	}
}
