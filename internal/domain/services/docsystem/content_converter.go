package docsystem

import "context"

// ContentConverter turns an imported file into markdown document content.
// Implementations must be safe for concurrent use.
type ContentConverter interface {
	// Convert returns input rendered as markdown
	Convert(ctx context.Context, input []byte) (markdown string, err error)

	// SupportedExtensions lists handled extensions with the leading dot
	SupportedExtensions() []string

	// Name identifies the converter in logs
	Name() string
}
