package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name    string
		perPage int
		page    int
		want    []int
	}{
		{"First page", 4, 1, []int{1, 2, 3, 4}},
		{"Last partial page", 4, 3, []int{9, 10}},
		{"Past the end", 4, 5, []int{}},
		{"Page zero is the first page", 4, 0, []int{1, 2, 3, 4}},
		{"Negative page is the first page", 3, -2, []int{1, 2, 3}},
		{"No page size", 0, 3, items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(items, tt.perPage, tt.page))
		})
	}
}
