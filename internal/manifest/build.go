package manifest

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/source"
	"synapse/internal/token"
	"synapse/internal/trace"
)

// Load reads a manifest through fs and builds its bindings. Problems
// in the manifest are reported to sink; the returned error is an I/O
// error or a strict-mode fault.
func Load(ctx context.Context, fs *source.FileSet, path string, sink *diag.Sink) ([]*bind.Binding, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(ctx, fs.Get(id), sink)
}

// Parse decodes f and builds its bindings.
func Parse(ctx context.Context, f *source.File, sink *diag.Sink) ([]*bind.Binding, error) {
	fileSpan := source.Span{File: f.ID}
	var mf File
	meta, err := toml.Decode(string(f.Content), &mf)
	if err != nil {
		return nil, sink.Error(diag.IOManifestError, parseErrorSpan(f, err), err.Error())
	}
	for _, key := range meta.Undecoded() {
		sink.Warn(diag.IOManifestError, fileSpan, fmt.Sprintf("unknown manifest key %q", key.String()))
	}

	tracer := trace.FromContext(ctx)
	out := make([]*bind.Binding, 0, len(mf.Bindings))
	for i := range mf.Bindings {
		mb := &mf.Bindings[i]
		sp := trace.Begin(tracer, trace.ScopeBinding, "binding:"+mb.Name, trace.ParentSpan(ctx))
		b, err := build(mb, fileSpan, sink)
		sp.End("")
		if err != nil {
			return out, err
		}
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

// parseErrorSpan points at the offending bytes of a toml.ParseError.
func parseErrorSpan(f *source.File, err error) source.Span {
	var perr toml.ParseError
	if !errors.As(err, &perr) {
		return source.Span{File: f.ID}
	}
	start, e1 := safecast.Conv[uint32](perr.Position.Start)
	n, e2 := safecast.Conv[uint32](perr.Position.Len)
	if e1 != nil || e2 != nil {
		return source.Span{File: f.ID}
	}
	return source.Span{File: f.ID, Start: start, End: start + n}
}

type builder struct {
	b    *bind.Binding
	sp   source.Span
	sink *diag.Sink
	err  error
}

// check keeps the first strict-mode fault; lenient errors are nil.
func (bl *builder) check(err error) bool {
	if err != nil && bl.err == nil {
		bl.err = err
	}
	return bl.err == nil
}

func build(mb *Binding, sp source.Span, sink *diag.Sink) (*bind.Binding, error) {
	if mb.Name == "" {
		return nil, sink.Error(diag.IOManifestError, sp, "binding without a name")
	}
	op, err := token.ParseOp(mb.Operator)
	if err != nil || !op.IsBindingPrefix() {
		return nil, sink.Errorf(diag.IOManifestError, sp, "binding %q: operator must be one of # ^ ~, got %q", mb.Name, mb.Operator)
	}
	bl := &builder{b: bind.New(mb.Name, op), sp: sp, sink: sink}
	bl.b.UseStatics = mb.UseStatics
	bl.b.Register = mb.Register
	bl.b.Span = sp

	if mb.Root != nil {
		root := bl.b.DefineRoot(sp)
		bl.section(root, mb.Root)
	}
	for _, ref := range mb.Refs {
		bl.b.AddRef(bl.b.Root(), ref)
	}

	ids := make([]bind.ItemID, len(mb.Items))
	for i := range mb.Items {
		ids[i] = bl.item(&mb.Items[i])
	}
	for i := range mb.Items {
		if ids[i].IsValid() {
			bl.section(ids[i], &mb.Items[i])
		}
	}

	for _, sig := range sortedKeys(mb.Hooks) {
		if fn := bl.function(sig, mb.Hooks[sig]); fn != nil {
			bl.check(bl.b.DefineHook(sig, fn, sink))
		}
	}
	for _, sig := range sortedKeys(mb.Overloads) {
		if fn := bl.function(sig, mb.Overloads[sig]); fn != nil {
			bl.check(bl.b.DefineGlobalOverload(sig, fn, sink))
		}
	}
	if bl.err != nil {
		return nil, bl.err
	}
	if err := bl.b.ResolveAllReferences(sink); err != nil {
		return nil, err
	}
	return bl.b, nil
}

func (bl *builder) item(s *Section) bind.ItemID {
	kind, ok := bind.ParseKind(s.Kind)
	if !ok {
		bl.check(bl.sink.Errorf(diag.IOManifestError, bl.sp, "item %q: unknown kind %q (expected base|index|bind|functions)", s.Name, s.Kind))
		return bind.NoItemID
	}
	op, err := token.ParseOp(s.Operator)
	if err != nil {
		bl.check(bl.sink.Errorf(diag.IOManifestError, bl.sp, "item %q: %v", s.Name, err))
		return bind.NoItemID
	}
	id, err := bl.b.AddItem(kind, s.Name, op, bl.sp, bl.sink)
	if !bl.check(err) {
		return bind.NoItemID
	}
	return id
}

// section adds the references, statics and tables of s to id.
func (bl *builder) section(id bind.ItemID, s *Section) {
	for _, ref := range s.Refs {
		bl.b.AddRef(id, ref)
	}
	for _, lit := range sortedKeys(s.Statics) {
		bl.check(bl.b.AddStatic(id, lit, s.Statics[lit], bl.sp, bl.sink))
	}
	tables := []struct {
		entries map[string]Func
		define  func(bind.ItemID, string, *bind.Function, *diag.Sink) error
	}{
		{s.Getters, bl.b.DefineGetter},
		{s.Setters, bl.b.DefineSetter},
		{s.Overloads, bl.b.DefineOverload},
		{s.Functions, bl.b.DefineFunction},
	}
	for _, t := range tables {
		for _, sig := range sortedKeys(t.entries) {
			if fn := bl.function(sig, t.entries[sig]); fn != nil {
				bl.check(t.define(id, sig, fn, bl.sink))
			}
		}
	}
}

func (bl *builder) function(sig string, f Func) *bind.Function {
	if f.Fn == "" {
		bl.check(bl.sink.Errorf(diag.BindBadSignature, bl.sp, "%q: function name is missing", sig))
		return nil
	}
	params, result, err := f.types()
	if err != nil {
		bl.check(bl.sink.Errorf(diag.BindBadSignature, bl.sp, "%q: %v", sig, err))
		return nil
	}
	return &bind.Function{Name: f.Fn, Params: params, Result: result, Span: bl.sp}
}
