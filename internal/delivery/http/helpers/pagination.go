package helpers

import (
	"net/http"
	"strconv"

	"eventmanager/internal/domain"
)

// Query defaults and limits for GET /events.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds page so (page-1)*page_size stays a sane SQL offset.
	MaxPage = 1_000_000
)

// ParsePagination reads page and page_size from the query string. Values that
// are missing, non-numeric or below 1 fall back to the defaults; values above
// MaxPage or MaxPageSize are clamped to them.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     queryInt(q.Get("page"), DefaultPage, MaxPage),
		PageSize: queryInt(q.Get("page_size"), DefaultPageSize, MaxPageSize),
	}
}

func queryInt(raw string, def, max int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// PaginationMeta describes where a page of events sits in the full listing.
// Events are ordered by date then insertion, so a page number names the same
// slice of the listing until events are added or removed before it.
//
// A page past the last one is not an error: it carries no items, Total and
// TotalPages are still reported, and PrevPage points at the last page so a
// client can restart from there.
type PaginationMeta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	NextPage   *int `json:"next_page,omitempty"`
	PrevPage   *int `json:"prev_page,omitempty"`
}

// NewPaginationMeta builds the metadata for page of a listing with total items.
// TotalPages is 0 for an empty listing or a non-positive pageSize.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	if page < meta.TotalPages {
		next := page + 1
		meta.NextPage = &next
	}
	if page > 1 && meta.TotalPages > 0 {
		prev := page - 1
		if prev > meta.TotalPages {
			prev = meta.TotalPages
		}
		meta.PrevPage = &prev
	}
	return meta
}
