package generate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mathieupost/pybridge/log"
	"github.com/mathieupost/pybridge/pyast"
)

// NoWrite is the destination that returns the text without writing it.
const NoWrite = "-"

// classSeparator sits between the bodies of successive source units.
const classSeparator = "\n\n\n\n"

// Options configure one Pipeline.
type Options struct {
	// Target is the class to expose. Empty selects DefaultTarget.
	Target string
	// Header is prepended verbatim when it names an existing file.
	Header string
	// Dest is written with the final text. Empty or NoWrite skips the write.
	Dest string
	// Template overrides DefaultTemplate when not empty.
	Template string
}

// Source is one unit of declaration text. Unit names it in diagnostics.
type Source struct {
	Unit string
	Text []byte
}

// Pipeline turns declaration text into bridge text.
type Pipeline struct {
	fs     afero.Fs
	opts   Options
	writer *Writer
}

// NewPipeline parses the template once so every run reuses it.
func NewPipeline(fs afero.Fs, opts Options) (*Pipeline, error) {
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	w, err := NewWriter(opts.Template)
	if err != nil {
		return nil, err
	}
	return &Pipeline{fs: fs, opts: opts, writer: w}, nil
}

// ProcessFile reads path and runs the pipeline over it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (string, error) {
	src, err := ReadSource(p.fs, path)
	if err != nil {
		return "", err
	}
	return p.Process(ctx, src)
}

// Process renders sources, prepends the header and writes the destination.
// The text is returned whether or not it was written. Nothing is written
// when any stage fails.
func (p *Pipeline) Process(ctx context.Context, sources ...Source) (string, error) {
	text, err := p.Generate(ctx, sources...)
	if err != nil {
		return "", err
	}

	if p.opts.Dest == "" || p.opts.Dest == NoWrite {
		return text, nil
	}
	if err := afero.WriteFile(p.fs, p.opts.Dest, []byte(text), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", p.opts.Dest)
	}
	log.Debug().Str("dest", p.opts.Dest).Int("bytes", len(text)).Msg("bridge written")
	return text, nil
}

// Generate produces the final text without writing it.
func (p *Pipeline) Generate(ctx context.Context, sources ...Source) (string, error) {
	ctx, span := otel.Tracer("").Start(ctx, "generate.Pipeline.Generate")
	defer span.End()

	runID := uuid.New().String()
	span.SetAttributes(attribute.String("run_id", runID))
	logger := log.With().Str("run_id", runID).Logger()

	bodies := make([]string, 0, len(sources))
	for _, src := range sources {
		body, ok, err := p.unit(ctx, src)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
		if !ok {
			logger.Warn().Str("unit", src.Unit).Str("class", p.opts.Target).Msg("no matching class")
			continue
		}
		bodies = append(bodies, body.text)
		logger.Info().
			Str("unit", src.Unit).
			Str("class", p.opts.Target).
			Int("operations", body.operations).
			Msg("bridge rendered")
	}

	text := strings.Join(bodies, classSeparator)

	header, err := p.header()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return normalizeNewlines(header + text), nil
}

type rendered struct {
	text       string
	operations int
}

func (p *Pipeline) unit(ctx context.Context, src Source) (rendered, bool, error) {
	ctx, span := otel.Tracer("").Start(ctx, "generate.Pipeline.unit",
		trace.WithAttributes(attribute.String("unit", src.Unit)))
	defer span.End()

	mod, err := pyast.Parse(ctx, src.Unit, src.Text)
	if err != nil {
		return rendered{}, false, errors.Wrap(err, "parsing source")
	}
	log.Debug().Str("unit", src.Unit).Int("statements", len(mod.Body)).Msg("source parsed")

	class := FindClass(mod, p.opts.Target)
	if class == nil {
		return rendered{}, false, nil
	}

	digest, err := BuildDigest(class)
	if err != nil {
		return rendered{}, false, errors.Wrap(err, "building digest")
	}
	log.Debug().Str("class", class.Name).Int("operations", digest.Len()).Msg("digest built")

	text, err := p.writer.Render(digest)
	if err != nil {
		return rendered{}, false, errors.Wrap(err, "rendering bridge")
	}
	return rendered{text: text, operations: digest.Len()}, true, nil
}

func (p *Pipeline) header() (string, error) {
	if p.opts.Header == "" {
		return "", nil
	}
	info, err := p.fs.Stat(p.opts.Header)
	if err != nil || !info.Mode().IsRegular() {
		log.Debug().Str("header", p.opts.Header).Msg("header skipped")
		return "", nil
	}
	data, err := afero.ReadFile(p.fs, p.opts.Header)
	if err != nil {
		return "", errors.Wrapf(err, "reading header %s", p.opts.Header)
	}
	return string(data), nil
}

// ReadSource reads path into a Source named after its base name.
func ReadSource(fs afero.Fs, path string) (Source, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Source{}, errors.Wrapf(err, "reading source %s", path)
	}
	return Source{Unit: filepath.Base(path), Text: data}, nil
}

// CheckPaths fails with a *PathError when source is not a readable file or
// when the parent of dest is not an existing directory.
func CheckPaths(fs afero.Fs, source, dest string) error {
	info, err := fs.Stat(source)
	switch {
	case os.IsNotExist(err):
		return &PathError{Path: source, Reason: "source does not exist"}
	case err != nil:
		return errors.Wrapf(err, "checking source %s", source)
	case info.IsDir():
		return &PathError{Path: source, Reason: "source is a directory"}
	}

	if dest == "" || dest == NoWrite {
		return nil
	}
	parent := filepath.Dir(dest)
	info, err = fs.Stat(parent)
	switch {
	case os.IsNotExist(err):
		return &PathError{Path: parent, Reason: "destination directory does not exist"}
	case err != nil:
		return errors.Wrapf(err, "checking destination %s", parent)
	case !info.IsDir():
		return &PathError{Path: parent, Reason: "destination parent is not a directory"}
	}
	return nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
