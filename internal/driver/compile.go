package driver

import (
	"context"
	"fmt"
	"strconv"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/ir"
	"synapse/internal/manifest"
	"synapse/internal/observ"
	"synapse/internal/path"
	"synapse/internal/source"
	"synapse/internal/syntax"
	"synapse/internal/trace"
)

// Options controls one compilation.
type Options struct {
	// Bindings are the *.bind.toml manifests to load.
	Bindings       []string
	MaxDiagnostics int
	// Strict turns the first binding or render error into a fault.
	Strict bool
	// Cache persists registered bindings; nil disables it.
	Cache *DiskCache
	// Timings fills Result.Timings.
	Timings bool
}

// OptionsFromConfig maps synapse.toml onto Options. The cache is opened
// separately.
func OptionsFromConfig(cfg Config) Options {
	return Options{
		Bindings:       cfg.Compile.Bindings,
		MaxDiagnostics: cfg.Compile.MaxDiagnostics,
		Strict:         cfg.Compile.Strict,
	}
}

// Result is everything a compilation produced. Code is valid even when
// Bag has errors: failed statements are left out.
type Result struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Library *bind.Library
	Network *ir.Network
	Code    []ir.NodeID
	Timings observ.Report
}

func newSink(bag *diag.Bag, strict bool) *diag.Sink {
	if strict {
		return diag.StrictSink()
	}
	return diag.NewSink(diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
}

// LoadLibrary builds every manifest into one library. Registered
// bindings are written to cache.
func LoadLibrary(ctx context.Context, fs *source.FileSet, paths []string, sink *diag.Sink, cache *DiskCache) (*bind.Library, error) {
	tracer := trace.FromContext(ctx)
	sp := trace.Begin(tracer, trace.ScopePass, "load-bindings", trace.ParentSpan(ctx))
	defer sp.End("")
	ctx = trace.WithSpan(ctx, sp)

	lib := bind.NewLibrary()
	for _, p := range paths {
		bindings, err := manifest.Load(ctx, fs, p, sink)
		if err != nil {
			return lib, err
		}
		var src Digest
		if len(bindings) > 0 {
			src = DigestOf(fs.Get(bindings[0].Span.File).Content)
		}
		for _, b := range bindings {
			if err := lib.Add(b, sink); err != nil {
				return lib, err
			}
			if !b.Register {
				continue
			}
			if err := cache.Store(b, p, src); err != nil {
				return lib, fmt.Errorf("cache binding %q: %w", b.Name, err)
			}
		}
	}
	sp.WithExtra("bindings", strconv.Itoa(len(lib.Bindings())))
	return lib, nil
}

// cachedLibrary falls back to the disk cache for bindings that no loaded
// manifest defines.
type cachedLibrary struct {
	lib   *bind.Library
	cache *DiskCache
	err   error
}

func (c *cachedLibrary) Get(name string) (*bind.Binding, bool) {
	if b, ok := c.lib.Get(name); ok {
		return b, true
	}
	if c.cache == nil || c.err != nil {
		return nil, false
	}
	b, ok, err := c.cache.Binding(name)
	if err != nil {
		c.err = err
		return nil, false
	}
	if !ok {
		return nil, false
	}
	c.lib.Replace(b)
	return b, true
}

// Compile renders the script file.
func Compile(ctx context.Context, script string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(script)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", script, err)
	}
	return CompileFile(ctx, fs, fs.Get(id), opts)
}

// CompileFile renders f, which must belong to fs.
func CompileFile(ctx context.Context, fs *source.FileSet, f *source.File, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	sp := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.ParentSpan(ctx)).WithExtra("path", f.Path)
	defer sp.End("")
	ctx = trace.WithSpan(ctx, sp)

	bag := diag.NewBag(opts.MaxDiagnostics)
	sink := newSink(bag, opts.Strict)
	res := &Result{FileSet: fs, Bag: bag, Network: ir.NewNetwork()}
	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
		defer func() { res.Timings = timer.Report() }()
	}

	loadIdx := timer.Begin("load-bindings")
	lib, err := LoadLibrary(ctx, fs, opts.Bindings, sink, opts.Cache)
	res.Library = lib
	timer.End(loadIdx, fmt.Sprintf("bindings=%d", len(lib.Bindings())))
	if err != nil {
		return res, err
	}

	resolver := &cachedLibrary{lib: lib, cache: opts.Cache}
	parseIdx := timer.Begin("parse")
	parseSpan := trace.Begin(tracer, trace.ScopePass, "parse", sp.ID())
	stmts := syntax.Parse(f, resolver, diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
	parseSpan.WithExtra("statements", strconv.Itoa(len(stmts))).End("")
	timer.End(parseIdx, fmt.Sprintf("statements=%d", len(stmts)))
	if resolver.err != nil {
		return res, fmt.Errorf("binding cache: %w", resolver.err)
	}
	if opts.Strict && bag.HasErrors() {
		d := bag.Items()[0]
		return res, &diag.Fault{Code: d.Code, Message: d.Message, Span: d.Primary}
	}

	renderIdx := timer.Begin("render")
	r := path.NewRenderer(ctx, res.Network, sink)
	res.Code, err = r.Render(stmts)
	timer.End(renderIdx, fmt.Sprintf("nodes=%d", res.Network.Len()))
	if err != nil {
		return res, err
	}
	bag.Sort()
	return res, nil
}
