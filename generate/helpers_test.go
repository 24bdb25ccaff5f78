package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mathieupost/pybridge/pyast"
)

func parseModule(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := pyast.Parse(context.Background(), "test.py", []byte(src))
	require.NoError(t, err)
	return mod
}

// digestOf builds the digest of the API class declared in src.
func digestOf(t *testing.T, src string) (*ClassDigest, error) {
	t.Helper()
	class := FindClass(parseModule(t, src), DefaultTarget)
	require.NotNil(t, class, "no API class in source")
	return BuildDigest(class)
}

// operation compiles a single method declared with the given parameter list
// and return annotation.
func operation(t *testing.T, params, returns string) (*Function, error) {
	t.Helper()
	src := "class API:\n    def op(self" + params + ")"
	if returns != "" {
		src += " -> " + returns
	}
	src += ":\n        pass\n"

	digest, err := digestOf(t, src)
	if err != nil {
		return nil, err
	}
	fn, ok := digest.Operation("op")
	require.True(t, ok)
	return fn, nil
}
