package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ruleforge/vgen/pkg/annot/ast"
	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/cache"
	"ruleforge/vgen/pkg/catalog"
	"ruleforge/vgen/pkg/codegen"
	"ruleforge/vgen/pkg/config"
	"ruleforge/vgen/pkg/source/gosource"
	"ruleforge/vgen/pkg/telemetry/logging"
	"ruleforge/vgen/pkg/telemetry/metrics"
	"ruleforge/vgen/pkg/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

// Mode selects what a run does with generated code.
type Mode int

const (
	// ModeGenerate writes outputs.
	ModeGenerate Mode = iota
	// ModeCheck reports stale outputs without writing.
	ModeCheck
	// ModeLint generates in memory and reports catalog warnings.
	ModeLint
)

func (m Mode) String() string {
	switch m {
	case ModeGenerate:
		return "generate"
	case ModeCheck:
		return "check"
	case ModeLint:
		return "lint"
	default:
		return "unknown"
	}
}

// Options wires an Engine. Only Config is required.
type Options struct {
	Config  *config.Config
	Logger  *logging.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Store   cache.Store
	Catalog *catalog.Catalog

	// Revision is recorded in the manifest next to each output.
	Revision string

	// Version is mixed into the cache fingerprint so that upgrading vgen
	// regenerates everything.
	Version string
}

// Engine runs generation. It is safe for sequential reuse across runs,
// as watch mode does.
type Engine struct {
	cfg         *config.Config
	logger      *logging.Logger
	metrics     *metrics.Collector
	tracer      *tracing.Tracer
	store       cache.Store
	catalog     *catalog.Catalog
	revision    string
	reader      *gosource.Reader
	generator   *codegen.Generator
	fingerprint []byte
}

// New creates an Engine. Missing collaborators are replaced by inert
// defaults: a discarding logger, disabled metrics, a noop tracer and a
// memory cache.
func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		return nil, errors.New("engine: config is nil")
	}

	e := &Engine{
		cfg:      opts.Config,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		store:    opts.Store,
		catalog:  opts.Catalog,
		revision: opts.Revision,
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.metrics == nil {
		disabled := false
		e.metrics = metrics.NewCollector(&config.MetricsConfig{Enabled: &disabled}, nil)
	}
	if e.tracer == nil {
		e.tracer = tracing.Noop()
	}
	if e.store == nil {
		e.store = cache.NewMemoryStore()
	}

	gen := e.cfg.Generate
	e.reader = gosource.New(gosource.Options{Tag: gen.Tag, Directive: gen.Directive})
	e.generator = codegen.New(codegen.Options{
		ValueField:        gen.EffectiveValueField(),
		ErrorSuffix:       gen.ErrorSuffix,
		ConstructorPrefix: gen.ConstructorPrefix,
	})

	fp, err := fingerprint(gen, opts.Version)
	if err != nil {
		return nil, err
	}
	e.fingerprint = fp
	return e, nil
}

// fingerprint serializes everything besides the input bytes that affects
// generated output.
func fingerprint(gen config.GenerateConfig, version string) ([]byte, error) {
	out, err := yaml.Marshal(struct {
		Version  string                `yaml:"version"`
		Generate config.GenerateConfig `yaml:"generate"`
	}{version, gen})
	if err != nil {
		return nil, fmt.Errorf("engine: fingerprint: %w", err)
	}
	return out, nil
}

// Run processes every input found under paths.
func (e *Engine) Run(ctx context.Context, mode Mode, paths []string) (*Report, error) {
	inputs, err := e.Discover(paths)
	if err != nil {
		return nil, err
	}
	return e.RunFiles(ctx, mode, inputs), nil
}

// RunFiles processes the given input files. Errors are reported per file
// in the Report.
func (e *Engine) RunFiles(ctx context.Context, mode Mode, inputs []string) *Report {
	runID := uuid.NewString()
	start := time.Now()

	ctx = logging.WithRunID(ctx, runID)
	ctx, span := e.tracer.Start(ctx, tracing.SpanRun)
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrRunID, runID),
		attribute.Int(tracing.AttrFiles, len(inputs)),
	)
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTraceID(ctx, traceID)
	}

	log := e.logger.WithContext(ctx)
	log.Debug("run started", "mode", mode.String(), "files", len(inputs))

	report := &Report{RunID: runID, Mode: mode}
	owners := make(map[string]string)
	for _, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		output := e.OutputPath(input)
		if owner, ok := owners[output]; ok {
			report.Files = append(report.Files, FileResult{
				Input:  input,
				Output: output,
				Status: StatusFailed,
				RunID:  runID,
				Err: vgenerrors.NewStructuralError(ast.Location{File: input},
					"output %s is already generated from %s", output, owner),
			})
			e.metrics.RecordError(string(vgenerrors.ErrorTypeStructural))
			continue
		}
		owners[output] = input
		report.Files = append(report.Files, e.processFile(ctx, runID, mode, input))
	}
	report.Duration = time.Since(start)

	status := metrics.StatusSucceeded
	if report.Failed() > 0 {
		status = metrics.StatusFailed
	}
	e.metrics.RecordRun(status, report.Duration)
	if n, err := e.store.Len(ctx); err == nil {
		e.metrics.SetCacheEntries(n)
	}

	err := report.Err()
	tracing.SetStatus(span, err)
	log.Info("run finished",
		"mode", mode.String(),
		"files", len(report.Files),
		"generated", report.Count(StatusGenerated),
		"unchanged", report.Count(StatusUnchanged),
		"failed", report.Failed(),
		"duration", report.Duration,
	)
	return report
}
