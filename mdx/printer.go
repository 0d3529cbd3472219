package mdx

import (
	"strconv"
	"strings"
)

// Print renders an expression as JavaScript source.
func Print(e Expression) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

func printExpr(b *strings.Builder, e Expression) {
	switch v := e.(type) {
	case nil:
		b.WriteString("undefined")
	case *Identifier:
		b.WriteString(v.Name)
	case *Literal:
		printLiteral(b, v.Value)
	case *ObjectExpression:
		if len(v.Properties) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, p := range v.Properties {
			if i > 0 {
				b.WriteString(", ")
			}
			if p.Shorthand {
				printExpr(b, p.Value)
				continue
			}
			if p.Computed {
				b.WriteByte('[')
				printExpr(b, p.Key)
				b.WriteByte(']')
			} else {
				printExpr(b, p.Key)
			}
			b.WriteString(": ")
			printExpr(b, p.Value)
		}
		b.WriteString(" }")
	case *ArrayExpression:
		b.WriteByte('[')
		for i, el := range v.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, el)
		}
		b.WriteByte(']')
	}
}

func printLiteral(b *strings.Builder, v any) {
	switch vv := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		b.WriteString(strconv.Quote(vv))
	case bool:
		b.WriteString(strconv.FormatBool(vv))
	case float64:
		b.WriteString(strconv.FormatFloat(vv, 'f', -1, 64))
	default:
		b.WriteString(strconv.Quote(strings.TrimSpace(toString(vv))))
	}
}

// PrintStatement renders one ESM statement.
func PrintStatement(s Statement) string {
	switch v := s.(type) {
	case *RawStatement:
		return v.Source
	case *ExportNamedDeclaration:
		if v.Declaration == nil {
			return "export {}"
		}
		var b strings.Builder
		b.WriteString("export ")
		b.WriteString(v.Declaration.Kind)
		b.WriteByte(' ')
		for i, d := range v.Declaration.Declarations {
			if i > 0 {
				b.WriteString(", ")
			}
			if d.ID != nil {
				b.WriteString(d.ID.Name)
			}
			if d.Init != nil {
				b.WriteString(" = ")
				printExpr(&b, d.Init)
			}
		}
		return b.String()
	}
	return ""
}

// Source renders the document back to MDX text. ESM blocks are printed
// from their statement trees, so transforms are reflected in the output.
func (d *Document) Source() string {
	parts := make([]string, 0, len(d.Children))
	for _, n := range d.Children {
		if n.Kind != KindESM || n.Program == nil {
			parts = append(parts, strings.TrimRight(n.Value, "\n"))
			continue
		}
		stmts := make([]string, 0, len(n.Program.Body))
		for _, s := range n.Program.Body {
			stmts = append(stmts, PrintStatement(s))
		}
		parts = append(parts, strings.Join(stmts, "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n"
}
