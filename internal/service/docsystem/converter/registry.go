// Package converter turns imported files into markdown documents.
package converter

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"folio/internal/config"
	"folio/internal/domain"
	docsysSvc "folio/internal/domain/services/docsystem"
)

// Document is a converted file ready to be stored
type Document struct {
	Title   string
	Content string
}

// Registry routes files to converters by extension. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]docsysSvc.ContentConverter // lowercase ".ext"
}

// NewRegistry returns a registry with the markdown, text and HTML converters
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]docsysSvc.ContentConverter)}
	r.Register(NewMarkdownConverter())
	r.Register(NewTextConverter())
	r.Register(NewHTMLConverter())
	return r
}

// Register maps every extension of c to c, replacing earlier entries
func (r *Registry) Register(c docsysSvc.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range c.SupportedExtensions() {
		r.converters[normalizeExt(ext)] = c
	}
}

// Lookup returns the converter for filename, or nil
func (r *Registry) Lookup(filename string) docsysSvc.ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[normalizeExt(path.Ext(filename))]
}

// Supports reports whether filename has a registered converter
func (r *Registry) Supports(filename string) bool {
	return r.Lookup(filename) != nil
}

// Extensions lists the registered extensions in order
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.converters))
	for ext := range r.converters {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Convert converts one file. The title comes from a frontmatter "title"
// field when present, otherwise from the file name without extension.
func (r *Registry) Convert(ctx context.Context, filename string, content []byte) (*Document, error) {
	c := r.Lookup(filename)
	if c == nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unsupported file type %q", path.Ext(filename))}
	}

	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	markdown, err := c.Convert(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("%s converter: %w", c.Name(), err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		base := path.Base(filename)
		title = strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
	}
	if title == "" {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("cannot derive a title from %q", filename)}
	}

	return &Document{Title: truncateRunes(title, config.MaxDocumentTitleLength), Content: markdown}, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
