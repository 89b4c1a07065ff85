package repository

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type QueryType string

type SortOrder string

const (
	QueryTypeSelect QueryType = "select"
	QueryTypeCount  QueryType = "count"

	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"

	DefaultListLimit uint32 = 20
	MaxListLimit     uint32 = 100
)

type QueryOptions struct {
	Limit  uint32
	Cursor *string
	Sort   *string
}

type SortResult struct {
	Column string
	Order  SortOrder
}

// sortable columns; anything else is rejected before it reaches ORDER BY
var sortableColumns = map[string]struct{}{
	"created_at":    {},
	"updated_at":    {},
	"registered_at": {},
}

func parseSort(sort *string) (SortResult, error) {
	if sort == nil {
		return SortResult{
			Column: "created_at",
			Order:  SortOrderDesc,
		}, nil
	}

	parts := strings.Split(*sort, ":")
	if len(parts) != 2 {
		return SortResult{}, fmt.Errorf("invalid sort format")
	}
	column, order := parts[0], parts[1]

	if _, ok := sortableColumns[column]; !ok {
		return SortResult{}, fmt.Errorf("invalid sort column: %s", column)
	}

	switch order {
	case "asc":
		return SortResult{Column: column, Order: SortOrderAsc}, nil
	case "desc":
		return SortResult{Column: column, Order: SortOrderDesc}, nil
	}

	return SortResult{}, fmt.Errorf("invalid sort order: %s", order)
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}

	parts := strings.Split(string(decoded), "|")
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: expected two parts", ErrInvalidCursor)
	}

	at, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: time: %w", ErrInvalidCursor, err)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: id: %w", ErrInvalidCursor, err)
	}

	return at, id, nil
}

func EncodeCursor(at time.Time, id uuid.UUID) string {
	cursorStr := fmt.Sprintf("%s|%s", at.Format(time.RFC3339Nano), id.String())
	return base64.StdEncoding.EncodeToString([]byte(cursorStr))
}

func normalizeLimit(limit uint32) uint32 {
	if limit == 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// ApplyPagination adds keyset pagination on (sort column, id) and fetches one
// extra row so callers can tell whether another page exists.
func ApplyPagination(builder sq.SelectBuilder, opts QueryOptions) (sq.SelectBuilder, error) {
	sortResult, err := parseSort(opts.Sort)
	if err != nil {
		return builder, err
	}

	if opts.Cursor != nil {
		cursorTime, cursorID, err := decodeCursor(*opts.Cursor)
		if err != nil {
			return builder, err
		}

		switch sortResult.Order {
		case SortOrderAsc:
			builder = builder.Where(sq.Or{
				sq.Gt{sortResult.Column: cursorTime},
				sq.And{
					sq.Eq{sortResult.Column: cursorTime},
					sq.GtOrEq{"id": cursorID},
				},
			})
		case SortOrderDesc:
			builder = builder.Where(sq.Or{
				sq.Lt{sortResult.Column: cursorTime},
				sq.And{
					sq.Eq{sortResult.Column: cursorTime},
					sq.LtOrEq{"id": cursorID},
				},
			})
		}
	}

	builder = builder.OrderBy(fmt.Sprintf("%s %s, id %s", sortResult.Column, sortResult.Order, sortResult.Order))
	builder = builder.Limit(uint64(normalizeLimit(opts.Limit) + 1))
	return builder, nil
}

type ListResult[T any] struct {
	Items      []*T
	NextCursor *string
}

// buildListResult trims the look-ahead row and derives the next cursor from it.
func buildListResult[T any](rows []T, limit uint32, key func(*T) (time.Time, uuid.UUID)) *ListResult[T] {
	limit = normalizeLimit(limit)

	items := make([]*T, 0, min(len(rows), int(limit)))
	for i := range rows {
		if i == int(limit) {
			break
		}
		items = append(items, &rows[i])
	}

	result := &ListResult[T]{Items: items}
	if len(rows) > int(limit) {
		at, id := key(&rows[limit])
		next := EncodeCursor(at, id)
		result.NextCursor = &next
	}
	return result
}

func ToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}

	return sql.NullTime{Time: *t, Valid: true}
}

func ToNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{Valid: false}
	}

	return sql.NullString{String: *s, Valid: true}
}
