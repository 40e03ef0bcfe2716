package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, DefaultLimit, 0},
		{"negative limit", -5, 0, DefaultLimit, 0},
		{"over max", 500, 0, MaxLimit, 0},
		{"negative offset", 10, -3, 10, 0},
		{"passthrough", 50, 40, 50, 40},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.limit, tc.offset)
			if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
				t.Fatalf("Normalize(%d, %d) = %+v", tc.limit, tc.offset, got)
			}
		})
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?limit=30&offset=60", nil)
	page := FromRequest(r)
	if page.Limit != 30 || page.Offset != 60 {
		t.Fatalf("got %+v", page)
	}

	r = httptest.NewRequest("GET", "/products?limit=abc", nil)
	page = FromRequest(r)
	if page.Limit != DefaultLimit || page.Offset != 0 {
		t.Fatalf("got %+v", page)
	}
}
