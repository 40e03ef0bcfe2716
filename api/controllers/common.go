package controllers

import (
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// pagedResult wraps list responses with their total count and paging
// window.
type pagedResult struct {
	Items  any   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func paged(items any, total int64, page pagination.Page) pagedResult {
	return pagedResult{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}
}
