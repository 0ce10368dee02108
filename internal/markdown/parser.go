package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Document is rendered markdown plus its YAML frontmatter.
type Document struct {
	HTML []byte
	Meta map[string]any
}

// String returns a frontmatter value as a string, or "" when absent.
func (d *Document) String(key string) string {
	v, ok := d.Meta[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	return s
}

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// Render converts source to HTML and decodes its frontmatter.
func (p *Parser) Render(source []byte) (*Document, error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err := p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, err
	}

	meta := make(map[string]any)
	data := frontmatter.Get(context)
	if data != nil {
		err = data.Decode(&meta)
		if err != nil {
			return nil, fmt.Errorf("failed to decode frontmatter: %w", err)
		}
	}

	return &Document{HTML: buf.Bytes(), Meta: meta}, nil
}
