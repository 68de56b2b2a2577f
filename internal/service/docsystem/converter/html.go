package converter

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"

	docsysSvc "folio/internal/domain/services/docsystem"
)

// htmlConverter sanitizes HTML with a user-content policy, then converts
// what is left to markdown. Scripts, event handlers and javascript: URLs
// never reach the converter.
type htmlConverter struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

// NewHTMLConverter handles .html and .htm files
func NewHTMLConverter() docsysSvc.ContentConverter {
	return &htmlConverter{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

func (c *htmlConverter) Convert(_ context.Context, input []byte) (string, error) {
	clean := c.policy.SanitizeBytes(input)
	markdown, err := c.converter.ConvertBytes(clean)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(string(markdown)) + "\n", nil
}

func (c *htmlConverter) SupportedExtensions() []string { return []string{".html", ".htm"} }

func (c *htmlConverter) Name() string { return "html" }
