package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{name: "empty collection still has one page", total: 0, pageSize: 12, want: 1},
		{name: "exact multiple", total: 24, pageSize: 12, want: 2},
		{name: "partial last page", total: 25, pageSize: 12, want: 3},
		{name: "fewer than one page", total: 5, pageSize: 12, want: 1},
		{name: "degenerate page size", total: 100, pageSize: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TotalPages(tt.total, tt.pageSize))
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{name: "in range", page: 2, totalPages: 5, want: 2},
		{name: "past the end clamps to last page", page: 99, totalPages: 5, want: 5},
		{name: "below one clamps to first page", page: 0, totalPages: 5, want: 1},
		{name: "negative clamps to first page", page: -3, totalPages: 5, want: 1},
		{name: "single page", page: 7, totalPages: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ClampPage(tt.page, tt.totalPages))
		})
	}
}
