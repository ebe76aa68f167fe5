package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_QueryPositiveInt(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected int64
	}{
		{name: "valid positive", url: "/products?page=3", expected: 3},
		{name: "missing", url: "/products", expected: 0},
		{name: "zero", url: "/products?page=0", expected: 0},
		{name: "negative", url: "/products?page=-2", expected: 0},
		{name: "not a number", url: "/products?page=abc", expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			assert.Equal(t, tc.expected, QueryPositiveInt(r, "page"))
		})
	}
}

func Test_QueryString(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?sort=title", nil)
	assert.Equal(t, "title", QueryString(r, "sort", "price"))
	assert.Equal(t, "price", QueryString(r, "sortOrder", "price"))
}
