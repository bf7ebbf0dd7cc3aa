package property

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lmoral/captaleads/internal/agentstate"
	"github.com/lmoral/captaleads/internal/db"
	"github.com/lmoral/captaleads/internal/list"
)

func TestInsertAndGetByID(t *testing.T) {
	repo, listID, _ := testRepo(t)

	area := int64(90)
	bedrooms := int64(3)
	phone := "600111222"
	owner := "Ana"
	url := "https://x/1"

	saved, err := repo.Insert(listID, Input{
		Price:     250000,
		Area:      &area,
		Bedrooms:  &bedrooms,
		Phone:     &phone,
		OwnerName: &owner,
		SourceURL: &url,
		RawJSON:   json.RawMessage(`{"precio": "250.000 €"}`),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected non-zero ID")
	}

	got, err := repo.GetByID(saved.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Price != 250000 {
		t.Errorf("price = %d, want 250000", got.Price)
	}
	if got.Area == nil || *got.Area != 90 {
		t.Errorf("area = %v, want 90", got.Area)
	}
	if got.SourceURL == nil || *got.SourceURL != url {
		t.Errorf("source url = %v, want %q", got.SourceURL, url)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, _, _ := testRepo(t)

	_, err := repo.GetByID(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetBySourceURL(t *testing.T) {
	repo, listID, _ := testRepo(t)

	url := "https://x/1"
	if _, err := repo.Insert(listID, Input{Price: 100000, SourceURL: &url}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetBySourceURL(listID, url)
	if err != nil {
		t.Fatalf("get by url: %v", err)
	}
	if got.Price != 100000 {
		t.Errorf("price = %d, want 100000", got.Price)
	}

	if _, err := repo.GetBySourceURL(listID, "https://x/other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInsertDuplicateSourceURL(t *testing.T) {
	repo, listID, _ := testRepo(t)

	url := "https://x/1"
	if _, err := repo.Insert(listID, Input{Price: 100000, SourceURL: &url}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	_, err := repo.Insert(listID, Input{Price: 100000, SourceURL: &url})
	if err == nil {
		t.Fatal("expected error for duplicate source url")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
}

func TestInsertWithoutURLNeverConflicts(t *testing.T) {
	repo, listID, _ := testRepo(t)

	for i := 0; i < 2; i++ {
		if _, err := repo.Insert(listID, Input{Price: 100000}); err != nil {
			t.Fatalf("insert %d: %v", i+1, err)
		}
	}
}

func TestUpdate(t *testing.T) {
	repo, listID, _ := testRepo(t)

	url := "https://x/1"
	saved, err := repo.Insert(listID, Input{Price: 100000, SourceURL: &url})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	area := int64(75)
	if err := repo.Update(saved.ID, Input{Price: 95000, Area: &area, SourceURL: &url}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 95000 {
		t.Errorf("price = %d, want 95000", got.Price)
	}
	if got.Area == nil || *got.Area != 75 {
		t.Errorf("area = %v, want 75", got.Area)
	}

	if err := repo.Update(9999, Input{Price: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestDiffers(t *testing.T) {
	area := int64(90)
	phone := "600111222"
	p := &Property{
		Price:   250000,
		Area:    &area,
		Phone:   &phone,
		RawJSON: json.RawMessage(`{}`),
	}

	same := Input{Price: 250000, Area: &area, Phone: &phone}
	if p.Differs(same) {
		t.Error("identical input should not differ")
	}

	cheaper := same
	cheaper.Price = 240000
	if !p.Differs(cheaper) {
		t.Error("price change should differ")
	}

	noPhone := Input{Price: 250000, Area: &area}
	if !p.Differs(noPhone) {
		t.Error("dropped phone should differ")
	}
}

func TestExistsInList(t *testing.T) {
	repo, listID, database := testRepo(t)

	saved, err := repo.Insert(listID, Input{Price: 100000})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err := repo.ExistsInList(saved.ID, listID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Error("expected property in list")
	}

	other, err := list.NewRepository(database).Create("Other", "Other", 0, "EUR")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	ok, err = repo.ExistsInList(saved.ID, other.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Error("property should not be in other list")
	}
}

func TestListWithAgentStateDefaults(t *testing.T) {
	repo, listID, _ := testRepo(t)

	if _, err := repo.Insert(listID, Input{Price: 100000}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	page, err := repo.ListWithAgentState(1, listID, PageOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	if page.HasMore {
		t.Error("unexpected has_more")
	}

	item := page.Items[0]
	if item.State != agentstate.StateNew {
		t.Errorf("state = %q, want new", item.State)
	}
	if item.Comment != "" {
		t.Errorf("comment = %q, want empty", item.Comment)
	}
}

func TestListWithAgentStatePagination(t *testing.T) {
	repo, listID, _ := testRepo(t)

	for i := 0; i < 5; i++ {
		url := fmt.Sprintf("https://x/%d", i+1)
		if _, err := repo.Insert(listID, Input{Price: int64(100000 + i), SourceURL: &url}); err != nil {
			t.Fatalf("insert %d: %v", i+1, err)
		}
	}

	var seen []int64
	cursor := ""
	for pages := 0; ; pages++ {
		if pages > 5 {
			t.Fatal("pagination did not terminate")
		}

		page, err := repo.ListWithAgentState(1, listID, PageOptions{Cursor: cursor, Limit: 2})
		if err != nil {
			t.Fatalf("page %d: %v", pages+1, err)
		}
		for _, item := range page.Items {
			seen = append(seen, item.ID)
		}
		if !page.HasMore {
			break
		}
		if page.NextCursor == "" {
			t.Fatal("has_more without next_cursor")
		}
		cursor = page.NextCursor
	}

	if len(seen) != 5 {
		t.Fatalf("saw %d items, want 5", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("ids not strictly ascending: %v", seen)
		}
	}
}

func TestListWithAgentStateFilter(t *testing.T) {
	repo, listID, database := testRepo(t)

	var ids []int64
	for i := 0; i < 3; i++ {
		url := fmt.Sprintf("https://x/%d", i+1)
		saved, err := repo.Insert(listID, Input{Price: 100000, SourceURL: &url})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, saved.ID)
	}

	states := agentstate.NewRepository(database)
	if _, err := states.SetState(1, ids[0], agentstate.StateContacted); err != nil {
		t.Fatalf("set state: %v", err)
	}

	contacted, err := repo.ListWithAgentState(1, listID, PageOptions{State: "contacted"})
	if err != nil {
		t.Fatalf("list contacted: %v", err)
	}
	if len(contacted.Items) != 1 || contacted.Items[0].ID != ids[0] {
		t.Fatalf("contacted = %+v, want just #%d", contacted.Items, ids[0])
	}

	// Overlay-less rows count as "new".
	fresh, err := repo.ListWithAgentState(1, listID, PageOptions{State: "new"})
	if err != nil {
		t.Fatalf("list new: %v", err)
	}
	if len(fresh.Items) != 2 {
		t.Fatalf("new = %d, want 2", len(fresh.Items))
	}

	// A different agent still sees everything as new.
	otherAgent, err := repo.ListWithAgentState(2, listID, PageOptions{State: "new"})
	if err != nil {
		t.Fatalf("list other agent: %v", err)
	}
	if len(otherAgent.Items) != 3 {
		t.Fatalf("other agent new = %d, want 3", len(otherAgent.Items))
	}

	if _, err := repo.ListWithAgentState(1, listID, PageOptions{State: "bogus"}); err == nil {
		t.Fatal("expected error for invalid state filter")
	}
}

func TestListWithAgentStateInvalidCursor(t *testing.T) {
	repo, listID, _ := testRepo(t)

	_, err := repo.ListWithAgentState(1, listID, PageOptions{Cursor: "not-a-cursor"})
	if !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("err = %v, want ErrInvalidCursor", err)
	}
}

func testRepo(t *testing.T) (*Repository, int64, *sql.DB) {
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

	l, err := list.NewRepository(d).Create("Valencia", "Valencia", 0, "EUR")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	return NewRepository(d), l.ID, d
}
