package docsystem

import (
	"fmt"
	"math"
)

// Default pagination values for the flat document listing
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageOptions windows the flat document listing
type PageOptions struct {
	Page    int // 1-based page number (default: 1)
	PerPage int // page size (default: 10, max: 100)
}

// ApplyDefaults fills in default values for unset or out-of-range fields
func (opts *PageOptions) ApplyDefaults() {
	if opts.Page < 1 {
		opts.Page = DefaultPage
	}
	if opts.PerPage < 1 {
		opts.PerPage = DefaultPerPage
	}
	if opts.PerPage > MaxPerPage {
		opts.PerPage = MaxPerPage
	}
}

// Validate checks values after defaults were applied
func (opts *PageOptions) Validate() error {
	if opts.Page < 1 {
		return fmt.Errorf("page must be at least 1 (requested: %d)", opts.Page)
	}
	if opts.PerPage < 1 || opts.PerPage > MaxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d (requested: %d)", MaxPerPage, opts.PerPage)
	}
	return nil
}

// Offset returns the number of documents skipped before this page.
// It saturates at math.MaxInt, which is past the end of any listing.
func (opts *PageOptions) Offset() int {
	if opts.Page < 1 || opts.PerPage < 1 {
		return 0
	}
	if opts.Page-1 > math.MaxInt/opts.PerPage {
		return math.MaxInt
	}
	return (opts.Page - 1) * opts.PerPage
}

// DocumentPage is one window of the flat document listing
type DocumentPage struct {
	Items       []Document `json:"items"`
	Total       int        `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
	PerPage     int        `json:"per_page"`
}

// NewDocumentPage computes page metadata for a window of documents
func NewDocumentPage(items []Document, total int, opts PageOptions) *DocumentPage {
	if items == nil {
		items = []Document{}
	}
	pages := 0
	if opts.PerPage > 0 {
		pages = (total + opts.PerPage - 1) / opts.PerPage
	}
	return &DocumentPage{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: opts.Page,
		PerPage:     opts.PerPage,
	}
}
