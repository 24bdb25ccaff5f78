package generate

import (
	"strings"

	"github.com/mathieupost/pybridge/pyast"
)

// DefaultTarget is the class name the pipeline looks for by default.
const DefaultTarget = "API"

// FindClass returns the first top-level class named target, or nil.
func FindClass(mod *pyast.Module, target string) *pyast.ClassDef {
	for _, class := range mod.Classes() {
		if class.Name == target {
			return class
		}
	}
	return nil
}

// BuildDigest compiles every exposed operation of class in declaration
// order. Dunder-prefixed methods are not exposed. A later declaration with
// the same name replaces the earlier one in place.
func BuildDigest(class *pyast.ClassDef) (*ClassDigest, error) {
	digest := newClassDigest(class.Name)
	for _, stmt := range class.Body {
		def, ok := stmt.(*pyast.FunctionDef)
		if !ok || strings.HasPrefix(def.Name, "__") {
			continue
		}

		fn, err := CompileFunction(def)
		if err != nil {
			return nil, err
		}
		digest.set(fn)
	}
	return digest, nil
}
