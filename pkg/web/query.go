package web

import (
	"net/http"
	"strconv"
)

// QueryPositiveInt reads an integer query parameter that must be positive to
// count. A missing parameter, a parse failure or a non-positive value all
// yield zero, which callers treat as "not supplied".
func QueryPositiveInt(r *http.Request, key string) int64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil || intValue <= 0 {
		return 0
	}
	return intValue
}

// QueryString reads a string query parameter, falling back to def when the
// parameter is absent or empty.
func QueryString(r *http.Request, key, def string) string {
	if value := r.URL.Query().Get(key); value != "" {
		return value
	}
	return def
}
