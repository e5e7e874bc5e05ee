package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative page", -3, 5, 1, 5},
		{"negative size", 2, -1, 2, 10},
		{"cap at 100", 1, 500, 1, 100},
		{"passthrough", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p := NewPagination(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
}

func TestNewPagedResult(t *testing.T) {
	items := []string{"a", "b", "c"}
	result := NewPagedResult(items, 23, NewPagination(1, 10))

	assert.Equal(t, int64(23), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Len(t, result.Items, 3)
}

func TestNewPagedResultExactPages(t *testing.T) {
	result := NewPagedResult([]int{}, 20, NewPagination(2, 10))
	assert.Equal(t, 2, result.TotalPages)
}
