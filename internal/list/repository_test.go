package list

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lmoral/captaleads/internal/db"
)

func TestCreateAndGetByID(t *testing.T) {
	repo, _ := testRepo(t)

	l, err := repo.Create("Valencia FSBO", "Valencia", 25000, "EUR")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if l.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", l.Currency)
	}

	got, err := repo.GetByID(l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Valencia FSBO" || got.Location != "Valencia" {
		t.Errorf("got %q/%q, want Valencia FSBO/Valencia", got.Name, got.Location)
	}
	if got.Price != 25000 {
		t.Errorf("price = %d, want 25000", got.Price)
	}
}

func TestCreateDefaultsCurrency(t *testing.T) {
	repo, _ := testRepo(t)

	l, err := repo.Create("Madrid", "Madrid", 0, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", l.Currency)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, _ := testRepo(t)

	if _, err := repo.GetByID(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindByNameAndLocationCaseInsensitive(t *testing.T) {
	repo, _ := testRepo(t)

	if _, err := repo.Create("Valencia", "Valencia", 0, "EUR"); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByNameAndLocation("valencia", "VALENCIA")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Valencia" {
		t.Errorf("name = %q, want Valencia", got.Name)
	}

	if _, err := repo.FindByNameAndLocation("Sevilla", "Sevilla"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindOrCreate(t *testing.T) {
	repo, _ := testRepo(t)

	l, created, err := repo.FindOrCreate("Valencia", "Valencia")
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	if !created {
		t.Error("expected created = true on first call")
	}

	again, created, err := repo.FindOrCreate("VALENCIA", "valencia")
	if err != nil {
		t.Fatalf("second find or create: %v", err)
	}
	if created {
		t.Error("expected created = false on second call")
	}
	if again.ID != l.ID {
		t.Errorf("resolved list #%d, want #%d", again.ID, l.ID)
	}
}

func TestDuplicateNaturalKeyRejected(t *testing.T) {
	repo, _ := testRepo(t)

	if _, err := repo.Create("Valencia", "Valencia", 0, "EUR"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create("valencia", "valencia", 0, "EUR"); err == nil {
		t.Fatal("expected unique violation for case-insensitive duplicate")
	}
}

func TestRecalculatePrice(t *testing.T) {
	repo, database := testRepo(t)

	l, err := repo.Create("Valencia", "Valencia", 0, "EUR")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := database.Exec(
			"INSERT INTO properties (list_id, price) VALUES (?, ?)", l.ID, 100000,
		); err != nil {
			t.Fatalf("insert property: %v", err)
		}
	}

	if err := repo.RecalculatePrice(l.ID, 500); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	got, err := repo.GetByID(l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 1500 {
		t.Errorf("price = %d, want 1500 (3 leads x 500)", got.Price)
	}
}

func TestTouchMissing(t *testing.T) {
	repo, _ := testRepo(t)

	if err := repo.Touch(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	repo, database := testRepo(t)

	l, err := repo.Create("Valencia", "Valencia", 0, "EUR")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := database.Exec(
		"INSERT INTO properties (list_id, price) VALUES (?, ?)", l.ID, 100000,
	); err != nil {
		t.Fatalf("insert property: %v", err)
	}

	if err := repo.Delete(l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int
	if err := database.QueryRow(
		"SELECT COUNT(*) FROM properties WHERE list_id = ?", l.ID,
	).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("orphaned properties = %d, want 0", count)
	}
}

func testRepo(t *testing.T) (*Repository, *sql.DB) {
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
	return NewRepository(d), d
}
