package generate

import (
	"fmt"

	"github.com/mathieupost/pybridge/pyast"
)

// AnyType is used for parameters without an annotation.
const AnyType = "any"

var primitives = map[string]string{
	"str":      "string",
	"int":      "number",
	"float":    "number",
	"bool":     "boolean",
	"None":     "undefined",
	"date":     "string",
	"datetime": "string",
}

// Primitive maps a bare type name. Names outside the table are assumed to be
// shared domain types and pass through unchanged.
func Primitive(name string) string {
	if mapped, ok := primitives[name]; ok {
		return mapped
	}
	return name
}

// MapType maps an annotation to its TypeScript spelling. A nil annotation
// maps to AnyType. Errors are *TypeError without the operation set.
func MapType(annotation pyast.Expr) (string, error) {
	if annotation == nil {
		return AnyType, nil
	}
	return mapType(annotation, false)
}

// MapReturnType maps a return annotation. Both a missing annotation and an
// explicit None mean the operation has no declared result, returned as "".
func MapReturnType(annotation pyast.Expr) (string, error) {
	if annotation == nil {
		return "", nil
	}
	if _, ok := annotation.(*pyast.NoneLit); ok {
		return "", nil
	}
	return mapType(annotation, false)
}

func mapType(e pyast.Expr, inContainer bool) (string, error) {
	switch t := e.(type) {
	case *pyast.Name:
		return Primitive(t.ID), nil
	case *pyast.Attribute:
		return Primitive(t.Attr), nil
	case *pyast.NoneLit:
		return primitives["None"], nil
	case *pyast.Subscript:
		return mapSubscript(t, inContainer)
	case *pyast.BinOp:
		return mapUnion(t, inContainer)
	default:
		return "", unsupported(e, fmt.Sprintf("%s is not a type expression", e.Kind()))
	}
}

func mapSubscript(s *pyast.Subscript, inContainer bool) (string, error) {
	head := subscriptHead(s.Value)
	switch head {
	case "list", "List":
		if inContainer {
			return "", unsupported(s, "nested containers are not supported")
		}
		if len(s.Slices) != 1 {
			return "", unsupported(s, "list takes exactly one element type")
		}
		elem, err := mapType(s.Slices[0], true)
		if err != nil {
			return "", err
		}
		if isUnion(s.Slices[0]) {
			elem = "(" + elem + ")"
		}
		return elem + "[]", nil
	case "dict", "Dict":
		if inContainer {
			return "", unsupported(s, "nested containers are not supported")
		}
		if len(s.Slices) != 2 {
			return "", unsupported(s, "dict takes a key and a value type")
		}
		key, err := mapType(s.Slices[0], true)
		if err != nil {
			return "", err
		}
		value, err := mapType(s.Slices[1], true)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("{[key: %s]: %s}", key, value), nil
	case "Optional":
		if len(s.Slices) != 1 {
			return "", unsupported(s, "Optional takes exactly one type")
		}
		inner, err := mapType(s.Slices[0], inContainer)
		if err != nil {
			return "", err
		}
		return inner + " | undefined", nil
	default:
		return "", unsupported(s, "unsupported subscript")
	}
}

// mapUnion maps `A | B`. A None side renders exactly like Optional.
func mapUnion(b *pyast.BinOp, inContainer bool) (string, error) {
	if b.Op != "|" {
		return "", unsupported(b, fmt.Sprintf("operator %q is not a union", b.Op))
	}

	_, leftNone := b.Left.(*pyast.NoneLit)
	_, rightNone := b.Right.(*pyast.NoneLit)
	switch {
	case leftNone && !rightNone:
		inner, err := mapType(b.Right, inContainer)
		if err != nil {
			return "", err
		}
		return inner + " | undefined", nil
	case rightNone && !leftNone:
		inner, err := mapType(b.Left, inContainer)
		if err != nil {
			return "", err
		}
		return inner + " | undefined", nil
	}

	left, err := mapType(b.Left, inContainer)
	if err != nil {
		return "", err
	}
	right, err := mapType(b.Right, inContainer)
	if err != nil {
		return "", err
	}
	return left + " | " + right, nil
}

func subscriptHead(e pyast.Expr) string {
	switch t := e.(type) {
	case *pyast.Name:
		return t.ID
	case *pyast.Attribute:
		return t.Attr
	}
	return ""
}

func isUnion(e pyast.Expr) bool {
	switch t := e.(type) {
	case *pyast.BinOp:
		return true
	case *pyast.Subscript:
		return subscriptHead(t.Value) == "Optional"
	}
	return false
}

func unsupported(e pyast.Expr, reason string) *TypeError {
	return &TypeError{Annotation: e.Source(), Reason: reason}
}
