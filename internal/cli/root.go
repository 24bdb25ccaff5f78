package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/mathieupost/pybridge/config"
	"github.com/mathieupost/pybridge/generate"
	"github.com/mathieupost/pybridge/log"
	"github.com/mathieupost/pybridge/tracing"
)

// ServiceName identifies the generator in traces.
const ServiceName = "pybridgegen"

type flags struct {
	target        string
	template      string
	config        string
	logLevel      string
	logFormat     string
	traceEndpoint string
	watch         bool
}

// NewCommand builds the pybridgegen command tree over fs.
func NewCommand(fs afero.Fs) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "pybridgegen SOURCE [DEST|-] [HEADER]",
		Short: "Generate a TypeScript bridge from a Python API class",
		Long: `Generate a TypeScript bridge class from an annotated Python class.

Every public method of the target class (API by default) becomes a method of
the generated class that forwards its arguments through a Boundary's remote
call. DEST defaults to "-", which prints the bridge instead of writing it.
When HEADER names an existing file its text is prepended verbatim.

Examples:
  pybridgegen lib/api.py                          # print to stdout
  pybridgegen lib/api.py ui/src/api.ts            # write the bridge
  pybridgegen lib/api.py ui/src/api.ts header.ts  # with a header
  pybridgegen lib/api.py ui/src/api.ts --watch    # regenerate on change`,
		Args:          cobra.RangeArgs(1, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, fs, f, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.target, "target", "t", "", "class to expose (default API)")
	pf.StringVar(&f.template, "template", "", "template file replacing the built-in bridge template")
	pf.StringVarP(&f.config, "config", "c", "", "config file (default ./pybridge.yaml or ./.pybridge/config.yaml)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	pf.StringVar(&f.traceEndpoint, "trace-endpoint", "", `OTLP/HTTP collector address, or "stdout"`)
	root.Flags().BoolVarP(&f.watch, "watch", "w", false, "regenerate whenever SOURCE changes")

	root.AddCommand(newCheckCommand(fs, f))
	return root
}

// run is one invocation with its settings resolved.
type run struct {
	source   string
	pipeline *generate.Pipeline
	shutdown func()
}

// prepare resolves the settings, configures logging and tracing, runs the
// path pre-flight and builds the pipeline.
func prepare(fs afero.Fs, cmd *cobra.Command, f *flags, args []string, dest string) (*run, error) {
	cfg, err := loadConfig(fs, f)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, f, cfg)

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}

	tp, shutdown, err := tracing.NewProvider(cfg.Tracing.Endpoint, ServiceName)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	source := args[0]
	header := cfg.Header
	if len(args) > 2 {
		header = args[2]
	}

	if err := generate.CheckPaths(fs, source, dest); err != nil {
		shutdown()
		return nil, err
	}

	var tmpl string
	if cfg.Template != "" {
		data, err := afero.ReadFile(fs, cfg.Template)
		if err != nil {
			shutdown()
			return nil, errors.Wrapf(err, "reading template %s", cfg.Template)
		}
		tmpl = string(data)
	}

	p, err := generate.NewPipeline(fs, generate.Options{
		Target:   cfg.Target,
		Header:   header,
		Dest:     dest,
		Template: tmpl,
	})
	if err != nil {
		shutdown()
		return nil, err
	}
	return &run{source: source, pipeline: p, shutdown: shutdown}, nil
}

func runGenerate(cmd *cobra.Command, fs afero.Fs, f *flags, args []string) error {
	dest := generate.NoWrite
	if len(args) > 1 {
		dest = args[1]
	}

	r, err := prepare(fs, cmd, f, args, dest)
	if err != nil {
		return err
	}
	defer r.shutdown()

	out := cmd.OutOrStdout()
	emit := func(text string) {
		if dest == generate.NoWrite {
			fmt.Fprint(out, text)
			return
		}
		log.Info().Str("dest", dest).Msg("bridge generated")
	}

	if f.watch {
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()

		log.Info().Str("source", r.source).Msg("watching for changes")
		return r.pipeline.Watch(ctx, r.source, generate.DefaultDebounce, func(text string, err error) {
			if err != nil {
				log.Error().Err(err).Str("source", r.source).Msg("generation failed")
				return
			}
			emit(text)
		})
	}

	text, err := r.pipeline.ProcessFile(commandContext(cmd), r.source)
	if err != nil {
		return err
	}
	emit(text)
	return nil
}

func loadConfig(fs afero.Fs, f *flags) (*config.Config, error) {
	if f.config == "" {
		return config.LoadFromDir(fs, ".")
	}
	if ok, _ := afero.Exists(fs, f.config); !ok {
		return nil, &generate.PathError{Path: f.config, Reason: "config file does not exist"}
	}
	return config.Load(fs, f.config)
}

// applyFlags overrides cfg with every flag given on the command line.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("target") {
		cfg.Target = f.target
	}
	if changed("template") {
		cfg.Template = f.template
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if changed("trace-endpoint") {
		cfg.Tracing.Endpoint = f.traceEndpoint
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
