package pyast_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/mathieupost/pybridge/pyast"
)

const source = `
import typing as T

class Helper:
    def ignored(self) -> int:
        return 1

class API:
    """Bridge API."""

    value: int = 3

    def __init__(self, app):
        self.app = app

    def plain(self, a, b: int, c: str = "x", d: bool = False) -> list[int]:
        """
        Do a plain thing.

            Indented line.
        """
        return []

    @property
    def decorated(self) -> T.Optional[str]:
        return None

    async def later(self, when: str | None = None):
        pass
`

func parse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := pyast.Parse(context.Background(), "test.py", []byte(src))
	require.NoError(t, err)
	return mod
}

func functions(class *pyast.ClassDef) []*pyast.FunctionDef {
	var fns []*pyast.FunctionDef
	for _, s := range class.Body {
		if fn, ok := s.(*pyast.FunctionDef); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

func TestParseClasses(t *testing.T) {
	mod := parse(t, source)
	classes := mod.Classes()
	require.Len(t, classes, 2)
	require.Equal(t, "Helper", classes[0].Name)
	require.Equal(t, "API", classes[1].Name)

	fns := functions(classes[1])
	require.Len(t, fns, 4)
	require.Equal(t, "__init__", fns[0].Name)
	require.Equal(t, "plain", fns[1].Name)
	require.Equal(t, "decorated", fns[2].Name)
	require.Equal(t, "later", fns[3].Name)
	require.True(t, fns[3].Async)
}

func TestParseArguments(t *testing.T) {
	fn := functions(parse(t, source).Classes()[1])[1]

	args := fn.Args.Args
	require.Len(t, args, 5)
	require.Equal(t, "self", args[0].Name)
	require.Nil(t, args[0].Annotation)
	require.Equal(t, "a", args[1].Name)
	require.Nil(t, args[1].Annotation)
	require.Equal(t, "b", args[2].Name)
	require.IsType(t, &pyast.Name{}, args[2].Annotation)
	require.Equal(t, "int", args[2].Annotation.Source())

	require.Len(t, fn.Args.Defaults, 2)
	str, ok := fn.Args.Defaults[0].(*pyast.Str)
	require.True(t, ok)
	require.Equal(t, "x", str.Value)
	b, ok := fn.Args.Defaults[1].(*pyast.Bool)
	require.True(t, ok)
	require.False(t, b.Value)

	ret, ok := fn.Returns.(*pyast.Subscript)
	require.True(t, ok)
	require.Equal(t, "list", ret.Value.Source())
	require.Len(t, ret.Slices, 1)
	require.Equal(t, "int", ret.Slices[0].Source())
}

func TestParseDocstring(t *testing.T) {
	fns := functions(parse(t, source).Classes()[1])
	require.True(t, fns[1].HasDoc)
	require.Equal(t, "Do a plain thing.\n\n    Indented line.", fns[1].Doc)
	require.False(t, fns[2].HasDoc)
}

func TestParseAnnotationShapes(t *testing.T) {
	fns := functions(parse(t, source).Classes()[1])

	optional, ok := fns[2].Returns.(*pyast.Subscript)
	require.True(t, ok)
	attr, ok := optional.Value.(*pyast.Attribute)
	require.True(t, ok)
	require.Equal(t, "Optional", attr.Attr)

	union, ok := fns[3].Args.Args[1].Annotation.(*pyast.BinOp)
	require.True(t, ok)
	require.Equal(t, "|", union.Op)
	require.IsType(t, &pyast.Name{}, union.Left)
	require.IsType(t, &pyast.NoneLit{}, union.Right)
	require.IsType(t, &pyast.NoneLit{}, fns[3].Args.Defaults[0])
}

func TestParseNegativeDefault(t *testing.T) {
	mod := parse(t, "class API:\n    def f(self, x: int = -5, y: float = +1.5):\n        pass\n")
	fn := functions(mod.Classes()[0])[0]
	require.Len(t, fn.Args.Defaults, 2)

	neg, ok := fn.Args.Defaults[0].(*pyast.UnaryOp)
	require.True(t, ok)
	require.Equal(t, "-", neg.Op)
	require.IsType(t, &pyast.Num{}, neg.Operand)
	require.Equal(t, "5", neg.Operand.Source())

	pos, ok := fn.Args.Defaults[1].(*pyast.UnaryOp)
	require.True(t, ok)
	require.Equal(t, "+", pos.Op)
}

func TestParseVariadic(t *testing.T) {
	mod := parse(t, "class API:\n    def f(self, a, *rest, key=1, **extra):\n        pass\n")
	fn := functions(mod.Classes()[0])[0]
	require.Len(t, fn.Args.Args, 2)
	require.NotNil(t, fn.Args.VarArg)
	require.Equal(t, "rest", fn.Args.VarArg.Name)
	require.Len(t, fn.Args.KwOnly, 1)
	require.Equal(t, "key", fn.Args.KwOnly[0].Name)
	require.NotNil(t, fn.Args.KwArg)
	require.Equal(t, "extra", fn.Args.KwArg.Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "Syntax", src: "class API:\n    def f(self:\n        pass\n"},
		{name: "DefaultOrder", src: "class API:\n    def f(self, a=1, b):\n        pass\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pyast.Parse(context.Background(), "bad.py", []byte(tt.src))
			require.Error(t, err)

			var parseErr *pyast.ParseError
			require.True(t, errors.As(err, &parseErr))
			require.Equal(t, "bad.py", parseErr.Unit)
			require.Greater(t, parseErr.Line, 0)
		})
	}
}

func TestCleanDoc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "OneLine", in: "Bridge API.", want: "Bridge API."},
		{name: "Leading", in: "\n    First.\n    Second.\n    ", want: "First.\nSecond."},
		{name: "Nested", in: "Title\n\n    body\n      deeper\n", want: "Title\n\nbody\n  deeper"},
		{name: "Tabs", in: "Title\n\tbody", want: "Title\nbody"},
		{name: "Empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, pyast.CleanDoc(tt.in))
		})
	}
}

func TestParseStringEscapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"Quotes and tab", `"""Say \"hi\"\tthere"""`, `Say "hi"        there`},
		{"Raw", `r"""Keep \n raw"""`, `Keep \n raw`},
		{"Numeric", `"""Octal \101 hex \x42 uni \u00e9"""`, "Octal A hex B uni é"},
		{"Unknown", `"""Unknown \d stays"""`, `Unknown \d stays`},
		{"Continuation", "'''Line \\\njoined'''", "Line joined"},
		{"Newline", `"First\nSecond"`, "First\nSecond"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := parse(t, "class API:\n    def f(self):\n        "+tt.doc+"\n")
			fn := functions(mod.Classes()[0])[0]
			require.True(t, fn.HasDoc)
			require.Equal(t, tt.want, fn.Doc)
		})
	}

	mod := parse(t, `class API:
    def f(self, a: str = "it\'s", b: str = 'tab\there'):
        pass
`)
	defaults := functions(mod.Classes()[0])[0].Args.Defaults
	require.Equal(t, "it's", defaults[0].(*pyast.Str).Value)
	require.Equal(t, "tab\there", defaults[1].(*pyast.Str).Value)
}
