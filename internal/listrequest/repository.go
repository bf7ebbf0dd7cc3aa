package listrequest

import (
	"database/sql"
	"fmt"
)

// Repository provides CRUD operations for list requests.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a list-request repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, user_id, location, notes, status, created_list_id, created_at`

// Create files a new pending request.
func (r *Repository) Create(userID int64, location, notes string) (*Request, error) {
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO list_requests (user_id, location, notes) VALUES (?, ?, ?)",
		userID, location, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting list request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a request by its ID.
func (r *Repository) GetByID(id int64) (*Request, error) {
	query := fmt.Sprintf("SELECT %s FROM list_requests WHERE id = ?", selectColumns)
	req, err := scanRequest(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying list request %d: %w", id, err)
	}
	return req, nil
}

// List returns requests, newest first, optionally filtered by status.
func (r *Repository) List(status Status) ([]*Request, error) {
	query := fmt.Sprintf("SELECT %s FROM list_requests", selectColumns)
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var requests []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating requests: %w", err)
	}

	return requests, nil
}

// markProcessed transitions a pending request to a terminal status.
// The WHERE clause doubles as the conflict check: zero rows affected on
// an existing request means it was already processed.
func (r *Repository) markProcessed(id int64, status Status, createdListID *int64) error {
	result, err := r.db.Exec(
		"UPDATE list_requests SET status = ?, created_list_id = ? WHERE id = ? AND status = ?",
		string(status), createdListID, id, string(StatusPending),
	)
	if err != nil {
		return fmt.Errorf("updating request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return ErrAlreadyProcessed
	}
	return nil
}

func scanRequest(row interface{ Scan(...interface{}) error }) (*Request, error) {
	var req Request
	var status string
	var createdListID sql.NullInt64

	err := row.Scan(&req.ID, &req.UserID, &req.Location, &req.Notes, &status, &createdListID, &req.CreatedAt)
	if err != nil {
		return nil, err
	}

	req.Status = Status(status)
	if createdListID.Valid {
		req.CreatedListID = &createdListID.Int64
	}
	return &req, nil
}
