package generate

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ClassDigest is the ordered table of operations exposed by one class.
type ClassDigest struct {
	Name       string
	operations *orderedmap.OrderedMap[string, *Function]
}

func newClassDigest(name string) *ClassDigest {
	return &ClassDigest{
		Name:       name,
		operations: orderedmap.New[string, *Function](),
	}
}

// set inserts fn. A name that is already present keeps its position and
// takes the new value.
func (d *ClassDigest) set(fn *Function) {
	d.operations.Set(fn.Name, fn)
}

// Operation returns the operation with the given name.
func (d *ClassDigest) Operation(name string) (*Function, bool) {
	return d.operations.Get(name)
}

// Operations returns the operations in declaration order.
func (d *ClassDigest) Operations() []*Function {
	ops := make([]*Function, 0, d.operations.Len())
	for pair := d.operations.Oldest(); pair != nil; pair = pair.Next() {
		ops = append(ops, pair.Value)
	}
	return ops
}

// Len returns the number of operations.
func (d *ClassDigest) Len() int {
	return d.operations.Len()
}

// Function is the compiled signature of one operation.
type Function struct {
	Name       string
	Doc        string
	Parameters []*Parameter
	// ReturnType is empty when the operation declares no result.
	ReturnType string
}

// Compiled returns the parameter declarations, e.g. `x: number = -5`.
func (f *Function) Compiled() []string {
	decls := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		decls[i] = p.Decl()
	}
	return decls
}

// ArgNames returns the parameter names in declaration order.
func (f *Function) ArgNames() []string {
	names := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		names[i] = p.Name
	}
	return names
}

// RemoteArgs returns the argument list passed to the call boundary: the
// quoted operation name followed by the parameter names.
func (f *Function) RemoteArgs() string {
	name := "'" + f.Name + "'"
	names := f.ArgNames()
	switch len(names) {
	case 0:
		return name
	case 1:
		return name + ", " + names[0]
	default:
		return name + ", " + strings.Join(names, ", ")
	}
}

// Parameter is one compiled parameter. Default is the rendered literal and is
// only meaningful when HasDefault is set.
type Parameter struct {
	Name       string
	Annotation string
	Type       string
	Default    string
	HasDefault bool
}

// Decl returns `name: type` or `name: type = default`.
func (p *Parameter) Decl() string {
	if !p.HasDefault {
		return p.Name + ": " + p.Type
	}
	return p.Name + ": " + p.Type + " = " + p.Default
}
