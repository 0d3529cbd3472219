package mdx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExpressionLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{`"double"`, "double"},
		{`'single'`, "single"},
		{"`tick`", "tick"},
		{`'esc\'aped\n'`, "esc'aped\n"},
		{`"é"`, "é"},
		{`42`, float64(42)},
		{`-1.5`, float64(-1.5)},
		{`1e3`, float64(1000)},
		{`0x1F`, float64(31)},
		{`1_000`, float64(1000)},
		{`true`, true},
		{`false`, false},
		{`null`, nil},
		{`undefined`, nil},
	}
	for _, tt := range tests {
		e, err := ParseExpression(tt.src)
		require.NoError(t, err, tt.src)
		require.Equal(t, &Literal{Value: tt.want}, e, tt.src)
	}
}

func TestParseExpressionObject(t *testing.T) {
	e, err := ParseExpression(`{
		// comment
		title: "A", 'quoted': 1, "double": [1, 'two', { deep: true }],
		short, /* block */ 7: null,
	}`)
	require.NoError(t, err)

	obj := e.(*ObjectExpression)
	require.Len(t, obj.Properties, 5)
	require.True(t, obj.Properties[3].Shorthand)
	require.Equal(t, &Identifier{Name: "short"}, obj.Properties[3].Value)

	require.Equal(t, map[string]any{
		"title":  "A",
		"quoted": float64(1),
		"double": []any{float64(1), "two", map[string]any{"deep": true}},
		"short":  nil,
		"7":      nil,
	}, Evaluate(obj))
}

func TestParseExpressionErrors(t *testing.T) {
	for _, src := range []string{
		`{ a: 1`,
		`{ a 1 }`,
		`[1 2]`,
		`"unterminated`,
		"`${x}`",
		`fn()`,
		`{ a: 1 } extra`,
		`/* open`,
	} {
		_, err := ParseExpression(src)
		require.True(t, errors.Is(err, ErrSyntax), "%s: %v", src, err)
	}
}

func TestParseProgramStatements(t *testing.T) {
	prog := ParseProgram("import a from 'a';import b from \"b\"\nexport const x = 1, y = { z: 2 };\nexport default function Page() { return null }")

	require.Len(t, prog.Body, 4)
	require.Equal(t, &RawStatement{Source: "import a from 'a';"}, prog.Body[0])
	require.Equal(t, &RawStatement{Source: `import b from "b"`}, prog.Body[1])

	exp, ok := prog.Body[2].(*ExportNamedDeclaration)
	require.True(t, ok)
	require.Equal(t, "const", exp.Declaration.Kind)
	require.Len(t, exp.Declaration.Declarations, 2)
	require.Equal(t, "y", exp.Declaration.Declarations[1].ID.Name)

	_, ok = prog.Body[3].(*RawStatement)
	require.True(t, ok)
}

func TestParseProgramUnreadableSourceIsRaw(t *testing.T) {
	prog := ParseProgram("export const metadata = { title: 'broken }")
	require.Len(t, prog.Body, 1)
	require.IsType(t, &RawStatement{}, prog.Body[0])
}
