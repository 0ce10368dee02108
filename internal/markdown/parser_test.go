package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_FrontmatterAndBody(t *testing.T) {
	src := []byte("---\nsubject: Account Activation\npriority: 2\n---\nClick **here**:\nhttps://example.com/activate\n")

	doc, err := NewParser().Render(src)
	require.NoError(t, err)

	assert.Equal(t, "Account Activation", doc.String("subject"))
	assert.Equal(t, "2", doc.String("priority"))
	assert.Equal(t, "", doc.String("missing"))
	assert.Contains(t, string(doc.HTML), "<strong>here</strong>")
	assert.NotContains(t, string(doc.HTML), "subject:")
}

func TestRender_NoFrontmatter(t *testing.T) {
	doc, err := NewParser().Render([]byte("plain text"))
	require.NoError(t, err)
	assert.Empty(t, doc.Meta)
	assert.Contains(t, string(doc.HTML), "<p>plain text</p>")
}
