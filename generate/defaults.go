package generate

import (
	"strings"

	"github.com/mathieupost/pybridge/pyast"
)

// RenderDefault renders a default value as it appears in a parameter
// declaration. none reports a None default, which is never spelled out.
// Errors are *ValueError without the operation and parameter set.
func RenderDefault(e pyast.Expr) (literal string, none bool, err error) {
	switch t := e.(type) {
	case *pyast.NoneLit:
		return "", true, nil
	case *pyast.Str:
		// Quotes are stripped inside signatures.
		return strings.ReplaceAll(t.Value, "'", ""), false, nil
	case *pyast.Bool:
		if t.Value {
			return "true", false, nil
		}
		return "false", false, nil
	case *pyast.Num:
		return t.Source(), false, nil
	case *pyast.UnaryOp:
		num, ok := t.Operand.(*pyast.Num)
		if ok && (t.Op == "-" || t.Op == "+") {
			return t.Op + num.Source(), false, nil
		}
	}
	return "", false, &ValueError{Expression: e.Source(), Kind: e.Kind()}
}
