package property

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCursor is returned when a pagination cursor cannot be decoded.
// Route layers should map it to a bad-request response, not a server error.
var ErrInvalidCursor = errors.New("invalid cursor")

// sqliteTimeLayout matches the text format CURRENT_TIMESTAMP stores.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// encodeCursor packs a page boundary (creation time + row id) into an
// opaque token. Ordering ties on created_at are broken by id.
func encodeCursor(t time.Time, id int64) string {
	raw := fmt.Sprintf("%s|%d", t.UTC().Format(time.RFC3339), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, 0, ErrInvalidCursor
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, ErrInvalidCursor
	}

	t, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return time.Time{}, 0, ErrInvalidCursor
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, ErrInvalidCursor
	}

	return t, id, nil
}
