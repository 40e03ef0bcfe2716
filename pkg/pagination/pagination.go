package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is a normalized limit/offset pair.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps limit into [1, MaxLimit] and offset to >= 0.
func Normalize(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// FromRequest reads limit and offset query params, falling back to
// defaults on missing or malformed values.
func FromRequest(r *http.Request) Page {
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = DefaultLimit
	}
	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil {
		offset = 0
	}
	return Normalize(limit, offset)
}
