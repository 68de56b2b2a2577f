package converter

import (
	"context"
	"strings"
	"testing"

	"folio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Convert(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	tests := []struct {
		name      string
		filename  string
		content   string
		wantTitle string
		check     func(t *testing.T, markdown string)
	}{
		{
			name:      "markdown passes through",
			filename:  "notes/Chapter One.md",
			content:   "# One\n\nText.\n",
			wantTitle: "Chapter One",
			check: func(t *testing.T, markdown string) {
				assert.Equal(t, "# One\n\nText.\n", markdown)
			},
		},
		{
			name:      "frontmatter title wins and is stripped",
			filename:  "a.markdown",
			content:   "---\ntitle: The Real Title\n---\nbody\n",
			wantTitle: "The Real Title",
			check: func(t *testing.T, markdown string) {
				assert.Equal(t, "body\n", markdown)
			},
		},
		{
			name:      "uppercase extension",
			filename:  "README.TXT",
			content:   "plain",
			wantTitle: "README",
			check: func(t *testing.T, markdown string) {
				assert.Equal(t, "plain", markdown)
			},
		},
		{
			name:      "html is sanitized then converted",
			filename:  "page.html",
			content:   `<h1>Hello</h1><p onclick="x()">Some <strong>bold</strong> text</p><script>alert(1)</script>`,
			wantTitle: "page",
			check: func(t *testing.T, markdown string) {
				assert.Contains(t, markdown, "# Hello")
				assert.Contains(t, markdown, "**bold**")
				assert.NotContains(t, markdown, "alert")
				assert.NotContains(t, markdown, "onclick")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := r.Convert(ctx, tt.filename, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, doc.Title)
			tt.check(t, doc.Content)
		})
	}
}

func TestRegistry_ConvertRejects(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{"unsupported extension", "photo.png", "x"},
		{"no extension", "Makefile", "x"},
		{"unterminated frontmatter", "a.md", "---\ntitle: x\nbody"},
		{"invalid frontmatter", "a.md", "---\ntitle: [unclosed\n---\nbody"},
		{"empty name", ".md", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Convert(ctx, tt.filename, []byte(tt.content))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegistry_LongTitleTruncated(t *testing.T) {
	r := NewRegistry()
	long := strings.Repeat("é", 150)

	doc, err := r.Convert(context.Background(), long+".md", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 100, len([]rune(doc.Title)))
}

func TestRegistry_Extensions(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{".htm", ".html", ".markdown", ".md", ".text", ".txt"}, r.Extensions())
	assert.True(t, r.Supports("x.HTM"))
	assert.False(t, r.Supports("x.zip"))
}
