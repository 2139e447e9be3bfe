package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage_Defaults(t *testing.T) {
	testCases := []struct {
		name     string
		page     string
		perPage  string
		expected Page
	}{
		{"both empty", "", "", Page{Number: 1, Size: 100}},
		{"valid", "3", "25", Page{Number: 3, Size: 25}},
		{"non-numeric page", "abc", "25", Page{Number: 1, Size: 25}},
		{"non-numeric per_page", "3", "many", Page{Number: 3, Size: 100}},
		{"zero page", "0", "25", Page{Number: 1, Size: 25}},
		{"negative page", "-2", "25", Page{Number: 1, Size: 25}},
		{"zero per_page", "3", "0", Page{Number: 3, Size: 100}},
		{"negative per_page", "3", "-10", Page{Number: 3, Size: 100}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParsePage(tc.page, tc.perPage))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: 100}, Normalize(0, 0))
	assert.Equal(t, Page{Number: 1, Size: 100}, Normalize(-5, -5))
	assert.Equal(t, Page{Number: 4, Size: 50}, Normalize(4, 50))
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 1, Size: 100}.Offset())
	assert.Equal(t, 50, Page{Number: 2, Size: 50}.Offset())
	assert.Equal(t, 180, Page{Number: 10, Size: 20}.Offset())
}

func TestPage_TotalPages(t *testing.T) {
	p := Page{Number: 1, Size: 50}
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(1))
	assert.Equal(t, 1, p.TotalPages(50))
	assert.Equal(t, 2, p.TotalPages(51))
	assert.Equal(t, 3, p.TotalPages(120))
	assert.Equal(t, 0, p.TotalPages(-1))
}
