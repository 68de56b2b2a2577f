package converter

import (
	"context"

	docsysSvc "folio/internal/domain/services/docsystem"
)

// passthrough stores the input unchanged. Markdown is the storage format
// and plain text is already valid markdown.
type passthrough struct {
	name string
	exts []string
}

// NewMarkdownConverter handles .md and .markdown files
func NewMarkdownConverter() docsysSvc.ContentConverter {
	return &passthrough{name: "markdown", exts: []string{".md", ".markdown"}}
}

// NewTextConverter handles .txt and .text files
func NewTextConverter() docsysSvc.ContentConverter {
	return &passthrough{name: "plaintext", exts: []string{".txt", ".text"}}
}

func (p *passthrough) Convert(_ context.Context, input []byte) (string, error) {
	return string(input), nil
}

func (p *passthrough) SupportedExtensions() []string { return p.exts }

func (p *passthrough) Name() string { return p.name }
