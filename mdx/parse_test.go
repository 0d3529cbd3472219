package mdx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSplitsESMAndMarkdown(t *testing.T) {
	src := "import { Tabs } from 'nextra/components'\n\n# Title\n\nSome text.\n\nexport const metadata = {\n  title: 'Install',\n  tags: ['a', 'b'],\n}\n\nMore text.\n"
	doc := mustParse(t, src)

	kinds := make([]NodeKind, len(doc.Children))
	for i, n := range doc.Children {
		kinds[i] = n.Kind
	}
	require.Equal(t, []NodeKind{KindESM, KindMarkdown, KindESM, KindMarkdown}, kinds)
	require.Equal(t, "# Title\n\nSome text.", doc.Children[1].Value)

	meta, ok := doc.Metadata()
	require.True(t, ok)
	require.Equal(t, map[string]any{"title": "Install", "tags": []any{"a", "b"}}, meta)
}

func TestParseIgnoresESMInsideCodeFences(t *testing.T) {
	src := "```js\nexport const metadata = { title: 'nope' }\n```\n"
	doc := mustParse(t, src)

	require.Len(t, doc.Children, 1)
	require.Equal(t, KindMarkdown, doc.Children[0].Kind)
	_, ok := doc.Metadata()
	require.False(t, ok)
}

func TestParseRequiresBlockStartForESM(t *testing.T) {
	doc := mustParse(t, "Paragraph line\nexport const metadata = { title: 'x' }\n")
	require.Len(t, doc.Children, 1)
	require.Equal(t, KindMarkdown, doc.Children[0].Kind)
}

func TestParseFrontmatter(t *testing.T) {
	doc := mustParse(t, "---\ntitle: Hello\nsidebar: 3\ndraft: false\n---\n# Body\n")

	require.Len(t, doc.Children, 2)
	require.Equal(t, KindESM, doc.Children[0].Kind)
	require.Equal(t, `export const metadata = { "title": "Hello", "sidebar": 3, "draft": false }`, doc.Children[0].Value)

	meta, ok := doc.Metadata()
	require.True(t, ok)
	assert.Equal(t, "Hello", meta["title"])
	assert.Equal(t, float64(3), meta["sidebar"])
	assert.Equal(t, false, meta["draft"])
}

func TestParseFrontmatterCRLF(t *testing.T) {
	doc := mustParse(t, "---\r\ntitle: Hello\r\n---\r\n# Body\r\n")
	meta, ok := doc.Metadata()
	require.True(t, ok)
	require.Equal(t, "Hello", meta["title"])
	require.Equal(t, "# Body", doc.Children[1].Value)
}

func TestParseFrontmatterErrors(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: Hello\n# no closing\n"))
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))

	_, err = Parse([]byte("---\n- a\n- b\n---\n"))
	require.Error(t, err)

	_, err = Parse([]byte("---\ntitle: [unclosed\n---\n"))
	require.Error(t, err)
}

func TestParseEmptyFrontmatter(t *testing.T) {
	doc := mustParse(t, "---\n---\n# Body\n")
	meta, ok := doc.Metadata()
	require.True(t, ok)
	require.Empty(t, meta)
}

func TestSourceRoundTrip(t *testing.T) {
	src := "import X from './x'\nexport const metadata = { title: \"A\" }\n\n# A\n"
	doc := mustParse(t, src)
	require.Equal(t, src, doc.Source())
}
