package docsystem

import (
	"math"
	"testing"
)

func TestPageOptions_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    PageOptions
		expected PageOptions
	}{
		{
			name:     "applies all defaults",
			input:    PageOptions{},
			expected: PageOptions{Page: 1, PerPage: 10},
		},
		{
			name:     "preserves custom values",
			input:    PageOptions{Page: 3, PerPage: 25},
			expected: PageOptions{Page: 3, PerPage: 25},
		},
		{
			name:     "corrects negative page",
			input:    PageOptions{Page: -4, PerPage: 5},
			expected: PageOptions{Page: 1, PerPage: 5},
		},
		{
			name:     "caps per_page",
			input:    PageOptions{Page: 2, PerPage: 500},
			expected: PageOptions{Page: 2, PerPage: MaxPerPage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.input
			opts.ApplyDefaults()
			if opts != tt.expected {
				t.Errorf("ApplyDefaults() = %+v, want %+v", opts, tt.expected)
			}
			if err := opts.Validate(); err != nil {
				t.Errorf("Validate() after defaults: %v", err)
			}
		})
	}
}

func TestPageOptions_Offset(t *testing.T) {
	tests := []struct {
		name string
		opts PageOptions
		want int
	}{
		{"first page", PageOptions{Page: 1, PerPage: 10}, 0},
		{"third page", PageOptions{Page: 3, PerPage: 10}, 20},
		{"huge page saturates", PageOptions{Page: math.MaxInt, PerPage: 10}, math.MaxInt},
		{"just below overflow", PageOptions{Page: math.MaxInt/MaxPerPage + 1, PerPage: MaxPerPage}, (math.MaxInt / MaxPerPage) * MaxPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Offset(); got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewDocumentPage(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		opts      PageOptions
		wantPages int
	}{
		{"empty store", 0, PageOptions{Page: 1, PerPage: 10}, 0},
		{"exact multiple", 20, PageOptions{Page: 1, PerPage: 10}, 2},
		{"partial last page", 21, PageOptions{Page: 1, PerPage: 10}, 3},
		{"single page", 3, PageOptions{Page: 1, PerPage: 10}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewDocumentPage(nil, tt.total, tt.opts)
			if page.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", page.Pages, tt.wantPages)
			}
			if page.Items == nil {
				t.Error("Items must never be nil")
			}
			if page.CurrentPage != tt.opts.Page || page.PerPage != tt.opts.PerPage {
				t.Errorf("page metadata = %d/%d, want %d/%d", page.CurrentPage, page.PerPage, tt.opts.Page, tt.opts.PerPage)
			}
		})
	}
}
