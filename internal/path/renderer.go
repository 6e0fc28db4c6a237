package path

import (
	"context"
	"strconv"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/ir"
	"synapse/internal/source"
	"synapse/internal/token"
	"synapse/internal/trace"
)

// Renderer carries the state of one render pass: the node allocator, the
// error sink, the stack of statement lists being filled and the stack of
// paths collecting captured values.
type Renderer struct {
	Net ir.Allocator

	sink   *diag.Sink
	tracer trace.Tracer
	span   uint64

	code    []ir.NodeID
	targets []*[]ir.NodeID
	owners  []*Node
	// mute > 0 while a speculative render must not report.
	mute int
}

// NewRenderer prepares a pass writing into a. A nil sink is strict.
func NewRenderer(ctx context.Context, a ir.Allocator, sink *diag.Sink) *Renderer {
	return &Renderer{
		Net:    a,
		sink:   sink,
		tracer: trace.FromContext(ctx),
		span:   trace.ParentSpan(ctx),
	}
}

// Statement is one line of a script: a bare path, or an assignment to it.
type Statement struct {
	Target *Node
	Op     token.Op // OpNone for a bare path
	Value  Expr
	Span   source.Span
}

// Render renders the statements in order and returns the top-level code.
// It stops at the first fault; lenient errors do not stop it.
func (r *Renderer) Render(stmts []*Statement) ([]ir.NodeID, error) {
	sp := trace.Begin(r.tracer, trace.ScopePass, "render", r.span)
	outer := r.span
	r.span = sp.ID()
	defer func() { r.span = outer }()

	for _, st := range stmts {
		if err := r.RenderStatement(st); err != nil {
			sp.End("fault")
			return r.code, err
		}
	}
	sp.WithExtra("statements", strconv.Itoa(len(stmts))).End("")
	return r.code, nil
}

// RenderStatement renders one statement into the current target. A
// statement already rendered emits nothing.
func (r *Renderer) RenderStatement(st *Statement) error {
	if st.Op == token.OpNone {
		if st.Target.Result().IsValid() {
			return nil
		}
		if err := st.Target.RenderGet(r); err != nil {
			return err
		}
		if n := r.Net.Node(st.Target.Result()); n != nil && n.Kind == ir.KindResult {
			r.emit(ir.Eval(r.Net, st.Target.Result()))
		}
		return nil
	}
	return st.Target.RenderSet(r, st.Op, st.Value)
}

// Code is the top-level statement list rendered so far.
func (r *Renderer) Code() []ir.NodeID { return r.code }

func (r *Renderer) emit(id ir.NodeID) {
	if len(r.targets) == 0 {
		r.code = append(r.code, id)
		return
	}
	top := r.targets[len(r.targets)-1]
	*top = append(*top, id)
}

// enter makes n the owner of captures and opens a body for its statements.
func (r *Renderer) enter(n *Node) {
	r.owners = append(r.owners, n)
	r.targets = append(r.targets, new([]ir.NodeID))
}

// leave closes what enter opened and returns the collected body.
func (r *Renderer) leave() []ir.NodeID {
	top := r.targets[len(r.targets)-1]
	r.targets = r.targets[:len(r.targets)-1]
	r.owners = r.owners[:len(r.owners)-1]
	return *top
}

func (r *Renderer) owner() *Node {
	if len(r.owners) == 0 {
		return nil
	}
	return r.owners[len(r.owners)-1]
}

// capture registers a runtime value used inside the current path.
func (r *Renderer) capture(id ir.NodeID) {
	if id == r.Net.Empty() || id == r.Net.LastResult() {
		return
	}
	if n := r.owner(); n != nil {
		n.addRef(id)
	}
}

func (r *Renderer) record(id ir.NodeID) {
	if n := r.owner(); n != nil {
		n.rendered = append(n.rendered, id)
	}
}

func (r *Renderer) function(fn *bind.Function) ir.NodeID {
	return r.Net.Named(ir.KindFunction, fn.Name)
}

func (r *Renderer) errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	if r.mute > 0 {
		return nil
	}
	return r.sink.Errorf(code, sp, format, args...)
}

// wrapHook moves body into a callback executed by the override hook fn.
// Captured values are pushed in reverse and popped in use order inside
// the callback. The hook receives the callback followed by args; the short
// form takes them from the stack, callback last.
func (r *Renderer) wrapHook(n *Node, fn *bind.Function, short bool, body []ir.NodeID, tail ir.NodeID, args ...ir.NodeID) ir.NodeID {
	stmts := make([]ir.NodeID, 0, len(n.refs)+len(body)+1)
	for _, ref := range n.refs {
		stmts = append(stmts, ir.Pop(r.Net, ref))
	}
	stmts = append(stmts, body...)
	stmts = append(stmts, tail)
	cb := r.Net.MakeList(stmts, ir.TagCallback)
	n.extra = append(n.extra, cb)

	for i := len(n.refs) - 1; i >= 0; i-- {
		r.emit(ir.Push(r.Net, n.refs[i]))
	}
	var call ir.NodeID
	if short {
		for _, arg := range args {
			r.emit(ir.Push(r.Net, arg))
		}
		r.emit(ir.Push(r.Net, cb))
		call = ir.Call(r.Net, r.function(fn), nil)
	} else {
		call = ir.Call(r.Net, r.function(fn), append([]ir.NodeID{cb}, args...))
	}
	r.emit(call)
	n.rendered = append(n.rendered, cb, call)
	return r.Net.LastResult()
}
