package generate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/mathieupost/pybridge/pyast"
)

// CompileFunction builds the signature of one operation. The first declared
// parameter is the receiver and is never part of the signature.
func CompileFunction(def *pyast.FunctionDef) (*Function, error) {
	if err := checkParameterKinds(def); err != nil {
		return nil, err
	}

	fn := &Function{
		Name: def.Name,
		Doc:  def.Doc,
	}

	args := def.Args.Args
	defaults := pairDefaults(args, def.Args.Defaults)
	if len(args) > 0 {
		args, defaults = args[1:], defaults[1:]
	}

	for i, arg := range args {
		param, err := compileParameter(def.Name, arg, defaults[i])
		if err != nil {
			return nil, err
		}
		fn.Parameters = append(fn.Parameters, param)
	}

	ret, err := MapReturnType(def.Returns)
	if err != nil {
		return nil, withOperation(withAnnotation(err, def.Returns), def.Name, "")
	}
	fn.ReturnType = ret

	return fn, nil
}

func compileParameter(operation string, arg *pyast.Arg, def pyast.Expr) (*Parameter, error) {
	param := &Parameter{Name: arg.Name}
	if arg.Annotation != nil {
		param.Annotation = arg.Annotation.Source()
	}

	typ, err := MapType(arg.Annotation)
	if err != nil {
		return nil, withOperation(withAnnotation(err, arg.Annotation), operation, arg.Name)
	}
	param.Type = typ

	if def == nil {
		return param, nil
	}
	literal, none, err := RenderDefault(def)
	if err != nil {
		return nil, withOperation(err, operation, arg.Name)
	}
	if none {
		param.Type = undefinedCapable(param.Type)
		return param, nil
	}
	param.Default = literal
	param.HasDefault = true
	return param, nil
}

// undefinedCapable widens typ so a parameter whose default is None accepts
// undefined.
func undefinedCapable(typ string) string {
	if typ == AnyType || typ == primitives["None"] || strings.HasSuffix(typ, " | undefined") {
		return typ
	}
	return typ + " | undefined"
}

// pairDefaults aligns defaults with the tail of args: both lists are
// reversed, zipped to the length of args and the result reversed back. The
// entry for an argument without a default is nil.
func pairDefaults(args []*pyast.Arg, defaults []pyast.Expr) []pyast.Expr {
	reversed := slices.Clone(defaults)
	slices.Reverse(reversed)

	paired := make([]pyast.Expr, len(args))
	for i := range paired {
		if i < len(reversed) {
			paired[i] = reversed[i]
		}
	}
	slices.Reverse(paired)
	return paired
}

func checkParameterKinds(def *pyast.FunctionDef) error {
	var arg *pyast.Arg
	switch {
	case def.Args.VarArg != nil:
		arg = def.Args.VarArg
	case len(def.Args.KwOnly) > 0:
		arg = def.Args.KwOnly[0]
	case def.Args.KwArg != nil:
		arg = def.Args.KwArg
	default:
		return nil
	}
	return &TypeError{
		Operation:  def.Name,
		Annotation: arg.Source(),
		Reason:     "variadic and keyword-only parameters are not supported",
	}
}

// withAnnotation makes a *TypeError raised for a fragment of annotation
// name the whole annotation. The fragment moves into the reason.
func withAnnotation(err error, annotation pyast.Expr) error {
	var typeErr *TypeError
	if annotation == nil || !errors.As(err, &typeErr) {
		return err
	}
	full := annotation.Source()
	if typeErr.Annotation != full {
		typeErr.Reason = fmt.Sprintf("%s: %s", typeErr.Annotation, typeErr.Reason)
		typeErr.Annotation = full
	}
	return err
}

func withOperation(err error, operation, parameter string) error {
	var typeErr *TypeError
	if errors.As(err, &typeErr) {
		typeErr.Operation = operation
		return err
	}
	var valueErr *ValueError
	if errors.As(err, &valueErr) {
		valueErr.Operation = operation
		valueErr.Parameter = parameter
		return err
	}
	return errors.Wrapf(err, "operation %s", operation)
}
