package http

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/dailycoffee/internal/errors"
)

func TestParsePagination(t *testing.T) {
	testCases := []struct {
		name        string
		query       string
		expected    Pagination
		expectedErr error
	}{
		{name: "defaults", query: "", expected: Pagination{Page: 1, Limit: 10}},
		{name: "explicit values", query: "?page=3&limit=50", expected: Pagination{Page: 3, Limit: 50}},
		{name: "page zero", query: "?page=0", expectedErr: inErrors.ErrInvalidPagination},
		{name: "negative page", query: "?page=-1", expectedErr: inErrors.ErrInvalidPagination},
		{name: "limit above max", query: "?limit=51", expectedErr: inErrors.ErrInvalidPagination},
		{name: "limit zero", query: "?limit=0", expectedErr: inErrors.ErrInvalidPagination},
		{name: "not a number", query: "?page=abc", expectedErr: inErrors.ErrInvalidPagination},
		{name: "last page of int32", query: "?page=2147483647&limit=50", expected: Pagination{Page: math.MaxInt32, Limit: 50}},
		{name: "page above int32", query: "?page=2147483648", expectedErr: inErrors.ErrInvalidPagination},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/orders"+tc.query, nil)
			actual, err := ParsePagination(r, 10, 50)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestPaginationMeta(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}

	assert.Equal(t, int32(10), p.Offset())
	assert.Equal(t, Meta{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, p.Meta(21))
	assert.Equal(t, Meta{Page: 2, Limit: 10, Total: 0, TotalPages: 0}, p.Meta(0))
}

func TestPaginationOffset(t *testing.T) {
	testCases := []struct {
		name       string
		pagination Pagination
		expected   int32
	}{
		{name: "first page", pagination: Pagination{Page: 1, Limit: 20}, expected: 0},
		{name: "third page", pagination: Pagination{Page: 3, Limit: 20}, expected: 40},
		{name: "largest page", pagination: Pagination{Page: math.MaxInt32, Limit: 50}, expected: math.MaxInt32},
		{name: "just above int32", pagination: Pagination{Page: 1 << 30, Limit: 3}, expected: math.MaxInt32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.pagination.Offset())
		})
	}
}
