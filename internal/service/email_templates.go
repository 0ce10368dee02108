package service

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/templui/hoaxify/internal/i18n"
	"github.com/templui/hoaxify/internal/markdown"
	"golang.org/x/text/language"
)

//go:embed templates/email
var emailTemplatesFS embed.FS

const (
	emailActivation    = "activation"
	emailPasswordReset = "password_reset"
)

type emailData struct {
	AppName string
	URL     string
}

type renderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// emailTemplates renders the embedded per-locale markdown email templates.
type emailTemplates struct {
	parser *markdown.Parser
}

func newEmailTemplates() *emailTemplates {
	return &emailTemplates{parser: markdown.NewParser()}
}

func (t *emailTemplates) render(name string, locale language.Tag, data emailData) (*renderedEmail, error) {
	source, err := t.load(name, locale)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Parse(string(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute email template %s: %w", name, err)
	}

	doc, err := t.parser.Render(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to render email template %s: %w", name, err)
	}

	return &renderedEmail{
		Subject: doc.String("subject"),
		HTML:    string(doc.HTML),
		Text:    stripFrontmatter(buf.String()),
	}, nil
}

// load reads the template for locale, falling back to the default locale.
func (t *emailTemplates) load(name string, locale language.Tag) ([]byte, error) {
	for _, tag := range []language.Tag{locale, i18n.Supported[0]} {
		base, _ := tag.Base()
		source, err := emailTemplatesFS.ReadFile("templates/email/" + base.String() + "/" + name + ".md")
		if err == nil {
			return source, nil
		}
	}
	return nil, fmt.Errorf("email template %s not found", name)
}

func stripFrontmatter(s string) string {
	if !strings.HasPrefix(s, "---\n") {
		return s
	}
	_, body, found := strings.Cut(s[len("---\n"):], "\n---\n")
	if !found {
		return s
	}
	return strings.TrimSpace(body)
}
