// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the shared page envelope returned by admin list endpoints.
//
// # Overview
//
// List responses carry {page, limit, total, pages}. The helpers here compute
// the page count and check requested pages against it.
package pagination

const (
	// DefaultLimit is the page size the admin screens request.
	DefaultLimit = 10
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the requested page and limit. Zero values mean "let the backend decide".
type Params struct {
	Page  int
	Limit int
}

// Offset returns the zero-based index of the first item on [Params.Page].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in list responses.
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewMeta constructs pagination metadata, deriving Pages as ceil(total/limit).
func NewMeta(page, limit, total int) Meta {
	return Meta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: PageCount(total, limit),
	}
}

// PageCount returns ceil(total/limit), or 0 when limit is not positive.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// InRange reports whether page lies in [1, Pages].
// An empty result has no valid page.
func (m Meta) InRange(page int) bool {
	return page >= 1 && page <= m.Pages
}

// HasNext reports whether a page follows [Meta.Page].
func (m Meta) HasNext() bool {
	return m.Page < m.Pages
}

// HasPrev reports whether a page precedes [Meta.Page].
func (m Meta) HasPrev() bool {
	return m.Page > 1
}
