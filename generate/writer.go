package generate

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
)

// DefaultTemplate renders a TypeScript class that forwards every operation
// through a Boundary's remote method.
//
//go:embed templates/bridge.ts.tmpl
var DefaultTemplate string

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"join":         join,
	"deferred":     Deferred,
	"comment":      comment,
	"toCamel":      strcase.ToCamel,
	"toLowerCamel": strcase.ToLowerCamel,
	"toSnake":      strcase.ToSnake,
}

// Writer renders class digests with one template.
type Writer struct {
	tmpl *template.Template
}

// NewWriter parses text as a template. An empty text selects
// DefaultTemplate.
func NewWriter(text string) (*Writer, error) {
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("bridge").
		Funcs(Funcs).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "parsing template")
	}
	return &Writer{tmpl: tmpl}, nil
}

// Render executes the template for digest. The template sees .ClassName,
// .Operations (in declaration order) and .Digest.
func (w *Writer) Render(digest *ClassDigest) (string, error) {
	var buf bytes.Buffer
	err := w.tmpl.Execute(&buf, map[string]interface{}{
		"ClassName":  digest.Name,
		"Operations": digest.Operations(),
		"Digest":     digest,
	})
	if err != nil {
		return "", errors.Wrap(err, "executing template")
	}
	return strings.ReplaceAll(buf.String(), "\r\n", "\n"), nil
}

// Render renders digest with the template text.
func Render(digest *ClassDigest, text string) (string, error) {
	w, err := NewWriter(text)
	if err != nil {
		return "", err
	}
	return w.Render(digest)
}

// Deferred wraps a result type in the deferred type; an empty type is void.
func Deferred(returnType string) string {
	if returnType == "" {
		return "Promise<void>"
	}
	return "Promise<" + returnType + ">"
}

func join(elems []string, sep string) string {
	return strings.Join(elems, sep)
}

// comment keeps doc text from closing the surrounding block comment.
func comment(doc string) string {
	return strings.ReplaceAll(doc, "*/", "*\\/")
}
