package list

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a list does not exist.
var ErrNotFound = errors.New("list not found")

// Repository provides CRUD operations for lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a list repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, name, location, price, currency, created_at, updated_at`

// Create adds a new list and returns it with its generated ID.
func (r *Repository) Create(name, location string, price int64, currency string) (*List, error) {
	if currency == "" {
		currency = "EUR"
	}

	result, err := r.db.Exec(
		"INSERT INTO lists (name, location, price, currency) VALUES (?, ?, ?, ?)",
		name, location, price, currency,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a list by its ID.
func (r *Repository) GetByID(id int64) (*List, error) {
	query := fmt.Sprintf("SELECT %s FROM lists WHERE id = ?", selectColumns)
	l, err := scanList(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying list %d: %w", id, err)
	}
	return l, nil
}

// List returns all lists, newest first.
func (r *Repository) List() ([]*List, error) {
	query := fmt.Sprintf("SELECT %s FROM lists ORDER BY created_at DESC, id DESC", selectColumns)
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var lists []*List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning list: %w", err)
		}
		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lists: %w", err)
	}

	return lists, nil
}

// FindByNameAndLocation looks up a list by its natural key.
// Matching is case-insensitive. Returns ErrNotFound if absent.
func (r *Repository) FindByNameAndLocation(name, location string) (*List, error) {
	query := fmt.Sprintf("SELECT %s FROM lists WHERE name = ? AND location = ?", selectColumns)
	l, err := scanList(r.db.QueryRow(query, name, location))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying list %q/%q: %w", name, location, err)
	}
	return l, nil
}

// FindOrCreate resolves a list by (name, location), creating it with zero
// price when absent. The boolean reports whether a new list was created.
func (r *Repository) FindOrCreate(name, location string) (*List, bool, error) {
	l, err := r.FindByNameAndLocation(name, location)
	if err == nil {
		return l, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	l, err = r.Create(name, location, 0, "EUR")
	if err != nil {
		return nil, false, fmt.Errorf("creating list %q/%q: %w", name, location, err)
	}
	return l, true, nil
}

// Update changes a list's name, location, price, and currency.
func (r *Repository) Update(id int64, name, location string, price int64, currency string) error {
	result, err := r.db.Exec(
		"UPDATE lists SET name = ?, location = ?, price = ?, currency = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		name, location, price, currency, id,
	)
	if err != nil {
		return fmt.Errorf("updating list: %w", err)
	}
	return requireRow(result, id)
}

// Touch bumps a list's updated_at timestamp. Called after every upload
// that changed property rows.
func (r *Repository) Touch(id int64) error {
	result, err := r.db.Exec(
		"UPDATE lists SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("touching list: %w", err)
	}
	return requireRow(result, id)
}

// RecalculatePrice sets the list price to lead count times perLead
// (minor currency units).
func (r *Repository) RecalculatePrice(id, perLead int64) error {
	result, err := r.db.Exec(
		`UPDATE lists
		 SET price = (SELECT COUNT(*) FROM properties WHERE list_id = lists.id) * ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		perLead, id,
	)
	if err != nil {
		return fmt.Errorf("recalculating price: %w", err)
	}
	return requireRow(result, id)
}

// Delete removes a list by ID. Properties cascade.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func scanList(row interface{ Scan(...interface{}) error }) (*List, error) {
	var l List
	err := row.Scan(&l.ID, &l.Name, &l.Location, &l.Price, &l.Currency, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
