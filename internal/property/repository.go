package property

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/lmoral/captaleads/internal/agentstate"
)

// ErrNotFound is returned when a property does not exist.
var ErrNotFound = errors.New("property not found")

// Repository provides CRUD operations for properties.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, list_id, price, area, bedrooms, phone, owner_name, source_url, raw_json, created_at`

// Insert adds a new property and returns it with its generated ID.
// A unique-index violation on (list_id, source_url) surfaces unwrapped
// so callers can classify it with IsUniqueViolation.
func (r *Repository) Insert(listID int64, in Input) (*Property, error) {
	result, err := r.db.Exec(
		`INSERT INTO properties (list_id, price, area, bedrooms, phone, owner_name, source_url, raw_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		listID, in.Price, in.Area, in.Bedrooms, in.Phone, in.OwnerName, in.SourceURL,
		string(normalizeRaw(in.RawJSON)),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a property by its ID.
func (r *Repository) GetByID(id int64) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)
	p, err := scanProperty(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}
	return p, nil
}

// GetBySourceURL returns the property in a list with the given source URL.
func (r *Repository) GetBySourceURL(listID int64, url string) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE list_id = ? AND source_url = ?", selectColumns)
	p, err := scanProperty(r.db.QueryRow(query, listID, url))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying property by url: %w", err)
	}
	return p, nil
}

// Update overwrites the mutable fields of a stored property.
func (r *Repository) Update(id int64, in Input) error {
	result, err := r.db.Exec(
		`UPDATE properties SET price = ?, area = ?, bedrooms = ?, phone = ?, owner_name = ?, raw_json = ?
		 WHERE id = ?`,
		in.Price, in.Area, in.Bedrooms, in.Phone, in.OwnerName,
		string(normalizeRaw(in.RawJSON)), id,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsInList reports whether a property belongs to the given list.
func (r *Repository) ExistsInList(propertyID, listID int64) (bool, error) {
	var one int
	err := r.db.QueryRow(
		"SELECT 1 FROM properties WHERE id = ? AND list_id = ?", propertyID, listID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking property %d: %w", propertyID, err)
	}
	return true, nil
}

// PageOptions controls the paginated overlay read.
type PageOptions struct {
	Cursor string // opaque, from a previous page; empty starts at the beginning
	Limit  int    // page size; defaults to 50, capped at 200
	State  string // "", "all", or one agent state; missing rows count as "new"
}

// Page is one page of properties with agent state applied.
type Page struct {
	Items      []*WithAgentState `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListWithAgentState returns a list's properties left-joined with the
// calling agent's overlay rows, ordered by (created_at, id) with cursor
// pagination. Filtering by state includes overlay-less rows under "new".
func (r *Repository) ListWithAgentState(userID, listID int64, opts PageOptions) (*Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var conditions []string
	args := []interface{}{userID, listID}
	conditions = append(conditions, "p.list_id = ?")

	if opts.State != "" && opts.State != "all" {
		if !agentstate.ValidState(opts.State) {
			return nil, fmt.Errorf("invalid state filter: %s", opts.State)
		}
		conditions = append(conditions, "COALESCE(s.state, 'new') = ?")
		args = append(args, opts.State)
	}

	if opts.Cursor != "" {
		after, afterID, err := decodeCursor(opts.Cursor)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, "(p.created_at > ? OR (p.created_at = ? AND p.id > ?))")
		ts := after.UTC().Format(sqliteTimeLayout)
		args = append(args, ts, ts, afterID)
	}

	query := fmt.Sprintf(
		`SELECT p.id, p.list_id, p.price, p.area, p.bedrooms, p.phone, p.owner_name, p.source_url, p.raw_json, p.created_at,
		        COALESCE(s.state, 'new'), COALESCE(s.comment, '')
		 FROM properties p
		 LEFT JOIN property_agent_state s ON s.property_id = p.id AND s.user_id = ?
		 WHERE %s
		 ORDER BY p.created_at, p.id
		 LIMIT ?`,
		strings.Join(conditions, " AND "),
	)
	args = append(args, limit+1)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	items := make([]*WithAgentState, 0, limit)
	for rows.Next() {
		item, err := scanWithAgentState(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	page := &Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

// IsUniqueViolation reports whether err is a SQLite unique-constraint
// failure, e.g. a concurrent insert of the same (list, source URL).
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var area, bedrooms sql.NullInt64
	var phone, owner, sourceURL sql.NullString
	var rawJSON string

	err := row.Scan(
		&p.ID, &p.ListID, &p.Price,
		&area, &bedrooms, &phone, &owner, &sourceURL,
		&rawJSON, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if area.Valid {
		p.Area = &area.Int64
	}
	if bedrooms.Valid {
		p.Bedrooms = &bedrooms.Int64
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	if owner.Valid {
		p.OwnerName = &owner.String
	}
	if sourceURL.Valid {
		p.SourceURL = &sourceURL.String
	}
	p.RawJSON = []byte(rawJSON)

	return &p, nil
}

func scanWithAgentState(row interface{ Scan(...interface{}) error }) (*WithAgentState, error) {
	var item WithAgentState
	var area, bedrooms sql.NullInt64
	var phone, owner, sourceURL sql.NullString
	var rawJSON, state string

	err := row.Scan(
		&item.ID, &item.ListID, &item.Price,
		&area, &bedrooms, &phone, &owner, &sourceURL,
		&rawJSON, &item.CreatedAt,
		&state, &item.Comment,
	)
	if err != nil {
		return nil, err
	}

	if area.Valid {
		item.Area = &area.Int64
	}
	if bedrooms.Valid {
		item.Bedrooms = &bedrooms.Int64
	}
	if phone.Valid {
		item.Phone = &phone.String
	}
	if owner.Valid {
		item.OwnerName = &owner.String
	}
	if sourceURL.Valid {
		item.SourceURL = &sourceURL.String
	}
	item.RawJSON = []byte(rawJSON)
	item.State = agentstate.State(state)

	return &item, nil
}
