package mdx

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("mdx: frontmatter closing delimiter is missing")

// splitFrontmatter separates `---` delimited YAML frontmatter from the body.
// had is false when the document does not start with a delimiter.
func splitFrontmatter(content []byte) (fm, body []byte, had bool, err error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}
	closeSeq := []byte(nl + "---")
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	rest := content[start+idx+len(closeSeq):]
	switch {
	case bytes.HasPrefix(rest, []byte(nl)):
		rest = rest[len(nl):]
	case len(rest) == 0:
	default:
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return content[start:end], rest, true, nil
}

// frontmatterExport converts YAML frontmatter into the equivalent
// `export const metadata = {…}` statement with string-literal keys.
func frontmatterExport(fm []byte) (*ExportNamedDeclaration, error) {
	obj := &ObjectExpression{}
	if len(bytes.TrimSpace(fm)) > 0 {
		var doc yaml.Node
		if err := yaml.Unmarshal(fm, &doc); err != nil {
			return nil, fmt.Errorf("mdx: parse frontmatter: %w", err)
		}
		if len(doc.Content) > 0 {
			root := doc.Content[0]
			if root.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("mdx: frontmatter must be a mapping, got %s", root.Tag)
			}
			obj = yamlExpression(root).(*ObjectExpression)
		}
	}
	return &ExportNamedDeclaration{Declaration: &VariableDeclaration{
		Kind: "const",
		Declarations: []*VariableDeclarator{{
			ID:   &Identifier{Name: MetadataExport},
			Init: obj,
		}},
	}}, nil
}

func yamlExpression(n *yaml.Node) Expression {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias != nil {
			return yamlExpression(n.Alias)
		}
	case yaml.MappingNode:
		obj := &ObjectExpression{Properties: make([]*Property, 0, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			obj.Properties = append(obj.Properties, &Property{
				Key:   &Literal{Value: n.Content[i].Value},
				Value: yamlExpression(n.Content[i+1]),
				Kind:  "init",
			})
		}
		return obj
	case yaml.SequenceNode:
		arr := &ArrayExpression{Elements: make([]Expression, 0, len(n.Content))}
		for _, c := range n.Content {
			arr.Elements = append(arr.Elements, yamlExpression(c))
		}
		return arr
	case yaml.ScalarNode:
		return &Literal{Value: yamlScalar(n)}
	}
	return &Literal{Value: nil}
}

func yamlScalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	}
	return n.Value
}
