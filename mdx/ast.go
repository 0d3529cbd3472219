// Package mdx parses MDX content files into a document tree, exposes the
// exported ESM bindings as a small expression tree, and applies pure
// transforms over it.
package mdx

// NodeKind tags a top-level document node.
type NodeKind string

const (
	// KindESM is an import/export block embedded in the document.
	KindESM NodeKind = "mdxjsEsm"
	// KindMarkdown is a block of plain Markdown.
	KindMarkdown NodeKind = "markdown"
)

// Document is the parsed form of one content file.
type Document struct {
	Children []*Node
}

// Node is a top-level block of a Document. Value holds the source text;
// Program is set for KindESM nodes.
type Node struct {
	Kind    NodeKind
	Value   string
	Program *Program
}

// Program is the statement list of one ESM block.
type Program struct {
	Body []Statement
}

// Statement is a top-level ESM statement.
type Statement interface {
	statementNode()
}

// Expression is an ESM expression.
type Expression interface {
	expressionNode()
}

// ExportNamedDeclaration is `export const name = init`.
type ExportNamedDeclaration struct {
	Declaration *VariableDeclaration
}

// VariableDeclaration groups declarators under one const/let/var keyword.
type VariableDeclaration struct {
	Kind         string
	Declarations []*VariableDeclarator
}

// VariableDeclarator binds ID to Init. Init is nil for `let x;`.
type VariableDeclarator struct {
	ID   *Identifier
	Init Expression
}

// RawStatement keeps statements the parser does not model (imports,
// default exports, functions) verbatim.
type RawStatement struct {
	Source string
}

// Identifier is a bare name.
type Identifier struct {
	Name string
}

// Literal is a primitive value: string, float64, bool or nil.
type Literal struct {
	Value any
}

// ObjectExpression is an object literal.
type ObjectExpression struct {
	Properties []*Property
}

// ArrayExpression is an array literal.
type ArrayExpression struct {
	Elements []Expression
}

// Property is one key/value pair of an ObjectExpression. Key is an
// *Identifier or a *Literal.
type Property struct {
	Key       Expression
	Value     Expression
	Kind      string
	Method    bool
	Shorthand bool
	Computed  bool
}

func (*ExportNamedDeclaration) statementNode() {}
func (*RawStatement) statementNode()           {}

func (*Identifier) expressionNode()       {}
func (*Literal) expressionNode()          {}
func (*ObjectExpression) expressionNode() {}
func (*ArrayExpression) expressionNode()  {}

// KeyName returns the name a property is addressed by, for identifier and
// string-literal keys. ok is false for any other key shape.
func (p *Property) KeyName() (name string, ok bool) {
	switch k := p.Key.(type) {
	case *Identifier:
		return k.Name, true
	case *Literal:
		s, isStr := k.Value.(string)
		return s, isStr
	}
	return "", false
}

// Lookup returns the last property addressed by key, matching object
// literal semantics where later keys win.
func (o *ObjectExpression) Lookup(key string) *Property {
	var found *Property
	for _, p := range o.Properties {
		if name, ok := p.KeyName(); ok && name == key {
			found = p
		}
	}
	return found
}

// Clone returns a deep copy of the expression tree rooted at e.
func Clone(e Expression) Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *Identifier:
		c := *v
		return &c
	case *Literal:
		c := *v
		return &c
	case *ObjectExpression:
		out := &ObjectExpression{Properties: make([]*Property, len(v.Properties))}
		for i, p := range v.Properties {
			cp := *p
			cp.Key = Clone(p.Key)
			cp.Value = Clone(p.Value)
			out.Properties[i] = &cp
		}
		return out
	case *ArrayExpression:
		out := &ArrayExpression{Elements: make([]Expression, len(v.Elements))}
		for i, el := range v.Elements {
			out.Elements[i] = Clone(el)
		}
		return out
	}
	return e
}

func cloneStatement(s Statement) Statement {
	switch v := s.(type) {
	case *ExportNamedDeclaration:
		if v.Declaration == nil {
			return &ExportNamedDeclaration{}
		}
		decl := &VariableDeclaration{
			Kind:         v.Declaration.Kind,
			Declarations: make([]*VariableDeclarator, len(v.Declaration.Declarations)),
		}
		for i, d := range v.Declaration.Declarations {
			cd := &VariableDeclarator{Init: Clone(d.Init)}
			if d.ID != nil {
				id := *d.ID
				cd.ID = &id
			}
			decl.Declarations[i] = cd
		}
		return &ExportNamedDeclaration{Declaration: decl}
	case *RawStatement:
		c := *v
		return &c
	}
	return s
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := &Node{Kind: n.Kind, Value: n.Value}
	if n.Program != nil {
		c.Program = &Program{Body: make([]Statement, len(n.Program.Body))}
		for i, s := range n.Program.Body {
			c.Program.Body[i] = cloneStatement(s)
		}
	}
	return c
}

// exportedName reports the identifier declared by a named export, if any.
// Malformed shapes (no declaration, no declarator) report false.
func exportedName(s Statement) (string, *VariableDeclarator, bool) {
	exp, ok := s.(*ExportNamedDeclaration)
	if !ok || exp.Declaration == nil || len(exp.Declaration.Declarations) == 0 {
		return "", nil, false
	}
	d := exp.Declaration.Declarations[0]
	if d == nil || d.ID == nil || d.ID.Name == "" {
		return "", nil, false
	}
	return d.ID.Name, d, true
}

// FindExport locates the first top-level named export declaring name. It
// returns the index of the owning node, the statement index within that
// node's program, and the declarator.
func (d *Document) FindExport(name string) (nodeIdx, stmtIdx int, decl *VariableDeclarator, ok bool) {
	for i, n := range d.Children {
		if n.Kind != KindESM || n.Program == nil {
			continue
		}
		for j, s := range n.Program.Body {
			if got, dd, isExport := exportedName(s); isExport && got == name {
				return i, j, dd, true
			}
		}
	}
	return 0, 0, nil, false
}
