package mdx

// Field is one entry of an object literal under construction. Value may be
// a primitive (string, bool, numbers, nil), nested Fields, or an Expression
// that is used as-is.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered mapping from keys to values.
type Fields []Field

// NewProperty returns an init property with an identifier key, shaped so it
// prints exactly like hand-written object literal syntax.
func NewProperty(key string, value Expression) *Property {
	return &Property{
		Key:   &Identifier{Name: key},
		Value: value,
		Kind:  "init",
	}
}

// NewObject builds an object literal node with one property per field, in
// field order.
func NewObject(fields Fields) *ObjectExpression {
	obj := &ObjectExpression{Properties: make([]*Property, 0, len(fields))}
	for _, f := range fields {
		obj.Properties = append(obj.Properties, NewProperty(f.Key, valueExpression(f.Value)))
	}
	return obj
}

func valueExpression(v any) Expression {
	switch vv := v.(type) {
	case Fields:
		return NewObject(vv)
	case Expression:
		return vv
	case int:
		return &Literal{Value: float64(vv)}
	case int64:
		return &Literal{Value: float64(vv)}
	case float32:
		return &Literal{Value: float64(vv)}
	}
	return &Literal{Value: v}
}
