package http

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	inErrors "github.com/Alturino/dailycoffee/internal/errors"
)

type Pagination struct {
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
}

// Offset saturates at math.MaxInt32 so that a page far past the end reads an empty page.
func (p Pagination) Offset() int32 {
	offset := (int64(p.Page) - 1) * int64(p.Limit)
	if offset > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(offset)
}

type Meta struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func (p Pagination) Meta(total int64) Meta {
	totalPages := int64(0)
	if p.Limit > 0 {
		totalPages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}

// ParsePagination reads page (>= 1, default 1) and limit (1..maxLimit, default
// defaultLimit) from the query string.
func ParsePagination(r *http.Request, defaultLimit int32, maxLimit int32) (Pagination, error) {
	p := Pagination{Page: 1, Limit: defaultLimit}
	query := r.URL.Query()

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || page < 1 {
			return Pagination{}, fmt.Errorf("page=%s: %w", raw, inErrors.ErrInvalidPagination)
		}
		p.Page = int32(page)
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit < 1 || limit > int64(maxLimit) {
			return Pagination{}, fmt.Errorf("limit=%s: %w", raw, inErrors.ErrInvalidPagination)
		}
		p.Limit = int32(limit)
	}

	return p, nil
}
