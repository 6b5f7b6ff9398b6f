package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// DefaultLimit is the page size when the request does not name one.
const DefaultLimit = 20

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

var (
	// ErrInvalidCursor is returned when a cursor cannot be decoded.
	// Handlers map it to a validation error on the cursor parameter.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first-page request rather than a failure.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest carries the paging query parameters of list endpoints.
type PaginationRequest struct {
	// Cursor is an opaque string issued in a previous page's NextCursor.
	Cursor string `form:"cursor"`

	// Limit is the requested page size.
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the effective page size with defaults and the cap applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// DecodeCursor decodes the request cursor.
// Returns ErrNoCursor when the request asks for the first page.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	if p.Cursor == "" {
		return nil, ErrNoCursor
	}

	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is one page of a list endpoint.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`

	// NextCursor resumes after the last item of this page.
	// Empty on the final page.
	NextCursor string `json:"nextCursor,omitempty"`

	HasMore bool `json:"hasMore"`
}

// NewPaginatedResponse builds a page from a window of up to limit+1 items.
// The extra item, when present, proves a further page exists and is trimmed.
func NewPaginatedResponse[T any](items []T, limit int, cursorBuilder func(T) *CursorData) *PaginatedResponse[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string

	if hasMore && len(items) > 0 && cursorBuilder != nil {
		lastItem := items[len(items)-1]
		cursor := cursorBuilder(lastItem)
		nextCursor = EncodeCursor(cursor)
	}

	return &PaginatedResponse[T]{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
}

// CursorData is the decoded position a cursor points at. The question feed
// keys pages by question ID alone; Field and Value keep the cursor stable
// if a sorted feed variant needs a tie-broken sort key later.
type CursorData struct {
	// Field names the sort field the cursor was issued under.
	Field string `json:"f"`

	// Value is the sort-field value at the cursor position.
	Value string `json:"v"`

	// ID identifies the last item of the previous page.
	ID string `json:"id"`
}

// EncodeCursor encodes cursor data as an opaque base64 string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string.
// Returns ErrNoCursor for the empty string.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	jsonBytes, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData

	err = json.Unmarshal(jsonBytes, &data)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// NewCursor builds cursor data from a sort field, its value, and the item ID.
func NewCursor(field, value, id string) *CursorData {
	return &CursorData{
		Field: field,
		Value: value,
		ID:    id,
	}
}

// EmptyPaginatedResponse returns a page with no items.
func EmptyPaginatedResponse[T any]() *PaginatedResponse[T] {
	return &PaginatedResponse[T]{
		Items:   []T{},
		HasMore: false,
	}
}
