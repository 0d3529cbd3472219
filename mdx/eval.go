package mdx

import (
	"fmt"
	"strconv"
)

// Evaluate converts a literal expression into Go values: objects become
// map[string]any, arrays []any, literals their value. Identifiers cannot be
// resolved statically and evaluate to nil.
func Evaluate(e Expression) any {
	switch v := e.(type) {
	case *Literal:
		return v.Value
	case *ObjectExpression:
		out := make(map[string]any, len(v.Properties))
		for _, p := range v.Properties {
			if p.Computed {
				continue
			}
			name, ok := p.KeyName()
			if !ok {
				lit, isLit := p.Key.(*Literal)
				if !isLit {
					continue
				}
				name = toString(lit.Value)
			}
			out[name] = Evaluate(p.Value)
		}
		return out
	case *ArrayExpression:
		out := make([]any, len(v.Elements))
		for i, el := range v.Elements {
			out[i] = Evaluate(el)
		}
		return out
	}
	return nil
}

// Metadata evaluates the document's exported metadata record. ok is false
// when there is no such export or it is not an object literal.
func (d *Document) Metadata() (map[string]any, bool) {
	_, _, decl, found := d.FindExport(MetadataExport)
	if !found {
		return nil, false
	}
	obj, isObj := decl.Init.(*ObjectExpression)
	if !isObj {
		return nil, false
	}
	return Evaluate(obj).(map[string]any), true
}

func toString(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}
