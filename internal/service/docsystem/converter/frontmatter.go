package converter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// frontmatter holds the fields read from a leading YAML block
type frontmatter struct {
	Title string `yaml:"title"`
}

// splitFrontmatter separates an optional leading "---" YAML block from the
// body. Content without the block is returned whole.
func splitFrontmatter(content []byte) (frontmatter, []byte, error) {
	var meta frontmatter

	rest, ok := cutDelimiterLine(content)
	if !ok {
		return meta, content, nil
	}

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		next := len(rest)
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + 1
		} else {
			line = rest[offset:]
		}

		if bytes.Equal(bytes.TrimSpace(line), []byte("---")) {
			if err := yaml.Unmarshal(rest[:offset], &meta); err != nil {
				return frontmatter{}, nil, fmt.Errorf("invalid frontmatter: %w", err)
			}
			return meta, rest[next:], nil
		}
		offset = next
	}

	return frontmatter{}, nil, errors.New("frontmatter is missing its closing '---'")
}

func cutDelimiterLine(content []byte) ([]byte, bool) {
	for _, open := range [][]byte{[]byte("---\n"), []byte("---\r\n")} {
		if rest, ok := bytes.CutPrefix(content, open); ok {
			return rest, true
		}
	}
	return nil, false
}
