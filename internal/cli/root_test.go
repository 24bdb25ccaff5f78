package cli

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/mathieupost/pybridge/generate"
)

const apiSource = `
class API:
    def action(self, val: int) -> dict[str, str]:
        return {}

class Service:
    def ping(self):
        pass
`

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func sourceFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/api.py", []byte(apiSource), 0o644))
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	return fs
}

func TestGenerateToStdout(t *testing.T) {
	out, err := execute(t, sourceFs(t), "/src/api.py")
	require.NoError(t, err)
	require.Contains(t, out, "class APIBridge {")
	require.Contains(t, out, "action(val: number): Promise<{[key: string]: string}> {")

	dashed, err := execute(t, sourceFs(t), "/src/api.py", "-")
	require.NoError(t, err)
	require.Equal(t, out, dashed)
}

func TestGenerateToFile(t *testing.T) {
	fs := sourceFs(t)
	require.NoError(t, afero.WriteFile(fs, "/src/header.ts", []byte("// header\n"), 0o644))

	out, err := execute(t, fs, "/src/api.py", "/out/api.ts", "/src/header.ts")
	require.NoError(t, err)
	require.Empty(t, out)

	written, err := afero.ReadFile(fs, "/out/api.ts")
	require.NoError(t, err)
	require.Contains(t, string(written), "// header\ninterface Boundary {")
}

func TestGenerateTargetFlag(t *testing.T) {
	out, err := execute(t, sourceFs(t), "/src/api.py", "--target", "Service")
	require.NoError(t, err)
	require.Contains(t, out, "class ServiceBridge {")
	require.Contains(t, out, "return this.boundary.remote('ping') as Promise<void>")
}

func TestGenerateConfigFile(t *testing.T) {
	fs := sourceFs(t)
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("target: Service\ntemplate: /tmpl.txt\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/tmpl.txt", []byte("{{ .ClassName }}:{{ range .Operations }}{{ .Name }}{{ end }}\n"), 0o644))

	out, err := execute(t, fs, "/src/api.py", "--config", "/cfg.yaml")
	require.NoError(t, err)
	require.Equal(t, "Service:ping\n", out)

	out, err = execute(t, fs, "/src/api.py", "--config", "/cfg.yaml", "--target", "API")
	require.NoError(t, err)
	require.Equal(t, "API:action\n", out)
}

func TestGeneratePreflight(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"MissingSource", []string{"/src/missing.py"}},
		{"MissingDestDir", []string{"/src/api.py", "/nowhere/api.ts"}},
		{"MissingConfig", []string{"/src/api.py", "--config", "/missing.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, sourceFs(t), tt.args...)
			var pathErr *generate.PathError
			require.True(t, errors.As(err, &pathErr), "got %v", err)
		})
	}
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	fs := sourceFs(t)
	require.NoError(t, afero.WriteFile(fs, "/src/bad.py", []byte("class API:\n    def op(self, x: int = compute()):\n        pass\n"), 0o644))

	_, err := execute(t, fs, "/src/bad.py", "/out/api.ts")
	var valueErr *generate.ValueError
	require.True(t, errors.As(err, &valueErr), "got %v", err)

	exists, err := afero.Exists(fs, "/out/api.ts")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCheckCommand(t *testing.T) {
	fs := sourceFs(t)

	out, err := execute(t, fs, "check", "/src/api.py", "/out/api.ts")
	require.ErrorIs(t, err, generate.ErrOutOfDate)
	require.Contains(t, out, "+class APIBridge {")

	_, err = execute(t, fs, "/src/api.py", "/out/api.ts")
	require.NoError(t, err)

	out, err = execute(t, fs, "check", "/src/api.py", "/out/api.ts")
	require.NoError(t, err)
	require.Empty(t, out)
}
