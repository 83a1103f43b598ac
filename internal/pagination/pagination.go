// Package pagination turns full or source-windowed result sets into the one
// paged shape handed to callers. It is the only place page math happens.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPage is the first page (1-indexed).
	DefaultPage = 1
	// DefaultLimit is used when the caller passes no usable limit.
	DefaultLimit = 25
	// MaxLimit caps page size so one request cannot ask for a whole collection.
	MaxLimit = 100
)

// Result is a single page of items plus navigation metadata.
// It is built fresh for every call and never cached.
type Result[T any] struct {
	Items       []T    `json:"items"`
	Total       int    `json:"total"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	HasMore     bool   `json:"has_more"`
	Source      string `json:"source,omitempty"`
}

// Clamp normalises page and limit: page < 1 becomes 1, limit < 1 becomes
// DefaultLimit and limit > MaxLimit becomes MaxLimit.
func Clamp(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ParseInt parses a page or limit parameter, returning def for empty or
// non-numeric input.
func ParseInt(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// Paginate slices a complete result set.
func Paginate[T any](items []T, page, limit int) Result[T] {
	page, limit = Clamp(page, limit)
	total := len(items)

	start := Offset(page, limit)
	window := []T{}
	if start < total {
		end := start + min(limit, total-start)
		window = append(window, items[start:end]...)
	}
	return build(window, total, page, limit)
}

// Offset is the index of the first item on page, saturating at math.MaxInt
// instead of overflowing for absurd page numbers.
func Offset(page, limit int) int {
	page, limit = Clamp(page, limit)
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// FromWindow wraps a page a source already cut for us. total is the size of
// the whole result set as reported by the source; window is trimmed to limit.
func FromWindow[T any](window []T, total, page, limit int) Result[T] {
	page, limit = Clamp(page, limit)
	if len(window) > limit {
		window = window[:limit]
	}
	if total < len(window) {
		total = len(window)
	}
	out := make([]T, len(window))
	copy(out, window)
	return build(out, total, page, limit)
}

// Empty is the well-formed result of an exhausted lookup.
func Empty[T any](page, limit int) Result[T] {
	page, limit = Clamp(page, limit)
	return build([]T{}, 0, page, limit)
}

// LastPage is ceil(total/limit).
func LastPage(total, limit int) int {
	if limit < 1 || total < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

func build[T any](items []T, total, page, limit int) Result[T] {
	start := Offset(page, limit)
	return Result[T]{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		LastPage:    LastPage(total, limit),
		HasMore:     start < total-limit,
	}
}
