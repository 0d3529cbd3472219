package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/soulfiremc/docsite/mdx"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// renderMarkdown renders the document's Markdown blocks as one body, so
// reference links resolve across ESM boundaries. It also returns the text
// of the first level-one heading.
func renderMarkdown(doc *mdx.Document) (string, string, error) {
	var blocks []string
	for _, n := range doc.Children {
		if n.Kind == mdx.KindMarkdown {
			blocks = append(blocks, n.Value)
		}
	}
	src := []byte(strings.Join(blocks, "\n\n"))

	root := markdown.Parser().Parse(text.NewReader(src))
	heading := firstHeading(root, src)

	var buf bytes.Buffer
	if err := markdown.Renderer().Render(&buf, src, root); err != nil {
		return "", "", err
	}
	return buf.String(), heading, nil
}

func firstHeading(root gmast.Node, src []byte) string {
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			return gmast.WalkContinue, nil
		}
		title = strings.TrimSpace(plainText(h, src))
		return gmast.WalkStop, nil
	})
	return title
}

func plainText(n gmast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(plainText(c, src))
		}
	}
	return b.String()
}
