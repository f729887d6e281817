package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront-core/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	CursorVersionV1  = "v1"
)

// Cursor is an opaque keyset position over (created_at, id) in descending
// order.
type Cursor struct {
	After string `json:"after,omitempty"`
}

// Keyset is a decoded cursor.
type Keyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	cursorData := fmt.Sprintf("%s:%d-%s", CursorVersionV1, t.UnixMicro(), id.String())
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, fmt.Errorf("cursor cannot be empty")
	}
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor encoding: %w", err)
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return time.Time{}, uuid.Nil, fmt.Errorf("unsupported cursor version")
	}

	parts := strings.SplitN(payload, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor format: expected '<micros>-<uuid>'")
	}
	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid UUID: %w", err)
	}
	return time.UnixMicro(timestamp), id, nil
}

// decodeCursor turns an optional client cursor into a keyset position.
func decodeCursor(cursor *Cursor) (*Keyset, error) {
	if cursor == nil || cursor.After == "" {
		return nil, nil
	}
	t, id, err := DecodeAfterCursor(cursor.After)
	if err != nil {
		return nil, errs.Validation(err, "Invalid cursor")
	}
	return &Keyset{CreatedAt: t, ID: id}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// paginate trims the lookahead row and builds the next cursor from the last
// row kept.
func paginate[T any](rows []T, limit int, key func(T) (time.Time, uuid.UUID)) ([]T, *Cursor) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	t, id := key(rows[limit-1])
	return rows, &Cursor{After: EncodeAfterCursor(t, id)}
}
