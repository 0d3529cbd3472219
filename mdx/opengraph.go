package mdx

import (
	"math"
	"net/url"
	"strings"
)

// MetadataExport is the binding name content files use for page metadata.
const MetadataExport = "metadata"

// OpenGraphImageURL returns the generated preview image URL for title.
func OpenGraphImageURL(baseURL, title string) string {
	return strings.TrimRight(baseURL, "/") + "/og?title=" + url.QueryEscape(title)
}

// OpenGraphImage returns a transform that appends
// `openGraph: { images: "<baseURL>/og?title=<title>" }` to a document's
// metadata export. Documents without a metadata object or without a
// truthy literal title are returned unchanged. Numeric and boolean titles
// are formatted as text.
func OpenGraphImage(baseURL string) Transform {
	return func(doc *Document) *Document {
		nodeIdx, stmtIdx, decl, ok := doc.FindExport(MetadataExport)
		if !ok {
			return doc
		}
		obj, isObj := decl.Init.(*ObjectExpression)
		if !isObj {
			return doc
		}
		title, ok := titleOf(obj)
		if !ok {
			return doc
		}

		prop := NewObject(Fields{
			{Key: "openGraph", Value: Fields{
				{Key: "images", Value: OpenGraphImageURL(baseURL, title)},
			}},
		}).Properties[0]

		node := doc.Children[nodeIdx].Clone()
		_, cloned, _ := exportedName(node.Program.Body[stmtIdx])
		target := cloned.Init.(*ObjectExpression)
		target.Properties = append(target.Properties, prop)
		return doc.withNode(nodeIdx, node)
	}
}

func titleOf(obj *ObjectExpression) (string, bool) {
	for _, p := range obj.Properties {
		name, ok := p.KeyName()
		if !ok || name != "title" {
			continue
		}
		lit, isLit := p.Value.(*Literal)
		if !isLit {
			return "", false
		}
		return titleText(lit.Value)
	}
	return "", false
}

func titleText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		if t == 0 || math.IsNaN(t) {
			return "", false
		}
		return toString(t), true
	case bool:
		return "true", t
	}
	return "", false
}
