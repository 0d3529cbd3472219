package mdx

// Transform rewrites a document. Implementations must not modify their
// input; they return either the input itself (no change) or a new document
// that shares unchanged nodes with it.
type Transform func(*Document) *Document

// Apply runs transforms in order.
func Apply(doc *Document, transforms ...Transform) *Document {
	for _, t := range transforms {
		if t == nil {
			continue
		}
		doc = t(doc)
	}
	return doc
}

// withNode returns a shallow copy of d with Children[i] replaced by n.
func (d *Document) withNode(i int, n *Node) *Document {
	children := make([]*Node, len(d.Children))
	copy(children, d.Children)
	children[i] = n
	return &Document{Children: children}
}
