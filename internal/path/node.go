package path

import (
	"slices"
	"strings"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/ir"
	"synapse/internal/source"
	"synapse/internal/token"
	"synapse/internal/trace"
)

// Node is a whole path bound to one binding. It is itself an Expr, so a
// path can index or feed another path.
type Node struct {
	Binding *bind.Binding
	First   Item
	Rest    []Item

	span source.Span

	result   ir.NodeID
	typ      dtype.Type
	rendered []ir.NodeID
	extra    []ir.NodeID
	refs     []ir.NodeID
}

// NewNode builds a path over b with at least one step.
func NewNode(b *bind.Binding, sp source.Span, first Item, rest ...Item) *Node {
	return &Node{Binding: b, First: first, Rest: rest, span: sp}
}

// Steps returns First followed by Rest.
func (n *Node) Steps() []Item {
	return append([]Item{n.First}, n.Rest...)
}

func (n *Node) Span() source.Span { return n.span }
func (n *Node) Result() ir.NodeID { return n.result }

func (n *Node) Type() dtype.Type {
	if n.typ.IsNone() {
		return dtype.Any
	}
	return n.typ
}

// Rendered lists every node this path produced, in order.
func (n *Node) Rendered() []ir.NodeID { return n.rendered }

// Extra holds auxiliary results; the hook callback when the path was
// wrapped.
func (n *Node) Extra() []ir.NodeID { return n.extra }

// CodeRefs are the captured runtime values in first-use order.
func (n *Node) CodeRefs() []ir.NodeID { return n.refs }

func (n *Node) Render(r *Renderer) error { return n.RenderGet(r) }

func (n *Node) addRef(id ir.NodeID) {
	if !slices.Contains(n.refs, id) {
		n.refs = append(n.refs, id)
	}
}

func (n *Node) fail(r *Renderer) {
	n.result = r.Net.Empty()
	n.typ = dtype.Any
}

// mergeRefs hands n's captures to the enclosing path.
func (n *Node) mergeRefs(r *Renderer) {
	if parent := r.owner(); parent != nil {
		for _, id := range n.refs {
			parent.addRef(id)
		}
	}
}

func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString(n.Binding.Operator.Symbol() + n.Binding.Name)
	for _, s := range n.Steps() {
		sb.WriteString(s.Op().Symbol())
		if s.StaticName() != "" {
			sb.WriteString(s.StaticName())
		}
	}
	return sb.String()
}

// cursor is the walk state between two steps.
type cursor struct {
	cur      bind.ItemID
	prev     Item
	prevType dtype.Type
}

// walk renders steps from the binding root. ok is false when a step
// failed; the failure has been reported.
func (n *Node) walk(r *Renderer, steps []Item) (cursor, bool, error) {
	b := n.Binding
	c := cursor{cur: b.Root()}
	for i, st := range steps {
		if i == 0 {
			if target, isStatic := b.RootItem().Static(st.StaticName()); isStatic {
				if !st.Result().IsValid() {
					st.markStatic(r, target)
				}
				c = cursor{cur: target, prev: st, prevType: dtype.None}
				continue
			}
		}
		next, found, err := n.locate(r, c, st)
		if !found {
			return c, false, err
		}
		if err := st.RenderGet(r, b, next, c.prev, c.prevType); err != nil {
			return c, false, err
		}
		if st.Result() == r.Net.Empty() {
			return c, false, nil
		}
		c = cursor{cur: next, prev: st, prevType: st.Type()}
	}
	return c, true, nil
}

// locate follows the static redirect left by the previous step and then
// checks that st's operator is an edge of the current item.
func (n *Node) locate(r *Renderer, c cursor, st Item) (bind.ItemID, bool, error) {
	b := n.Binding
	cur := c.cur
	if c.prev != nil {
		if target, ok := c.prev.redirect(); ok {
			cur = target
		}
	}
	next, ok := st.NextItem(b, cur)
	if !ok {
		return bind.NoItemID, false, r.errorf(diag.RenderInvalidOperator, st.Span(),
			"Invalid operator in path: %q cannot follow %s", st.Op().Symbol(), itemLabel(b, cur))
	}
	return next, true, nil
}

// RenderGet renders the value of the path. A second call is a no-op.
func (n *Node) RenderGet(r *Renderer) error {
	if n.result.IsValid() {
		return nil
	}
	sp := trace.Begin(r.tracer, trace.ScopePath, "get "+n.String(), r.span)

	r.enter(n)
	c, ok, err := n.walk(r, n.Steps())
	body := r.leave()
	if !ok {
		n.fail(r)
		sp.End("failed")
		return err
	}

	n.typ = c.prevType
	final := c.prev.Result()
	if fn, short := n.Binding.Hook(bind.HookGet); fn != nil {
		n.result = r.wrapHook(n, fn, short, body, ir.Return(r.Net, final))
		n.typ = resultType(fn)
	} else {
		for _, id := range body {
			r.emit(id)
		}
		n.result = final
	}
	n.mergeRefs(r)
	sp.End(ir.Format(r.Net, n.result))
	return nil
}

// RenderSet renders "path op rhs" as a statement. The setter is looked up
// on the item of the last step: its Setter table for "=", its overloads and
// then the binding-wide overloads for compound operators. When no
// three-operand signature (container, key, value) matches and the path has
// more than one step, the last step is read through its getter and the
// two-operand form (value, rhs) is tried instead.
func (n *Node) RenderSet(r *Renderer, op token.Op, rhs Expr) error {
	if n.result.IsValid() {
		return nil
	}
	if !op.IsAssign() {
		n.fail(r)
		return r.errorf(diag.RenderUnsupportedTarget, n.span, "%q is not an assignment operator", op.Symbol())
	}
	sp := trace.Begin(r.tracer, trace.ScopePath, "set "+n.String()+" "+op.Symbol(), r.span)

	r.enter(n)
	stmt, err := n.renderSet(r, op, rhs)
	body := r.leave()
	if !stmt.IsValid() {
		n.fail(r)
		sp.End("failed")
		return err
	}

	n.typ = dtype.None
	if fn, short := n.Binding.Hook(bind.HookSet); fn != nil {
		n.result = r.wrapHook(n, fn, short, body, stmt, rhs.Result())
	} else {
		for _, id := range body {
			r.emit(id)
		}
		r.emit(stmt)
		n.result = stmt
	}
	n.mergeRefs(r)
	sp.End(ir.Format(r.Net, n.result))
	return nil
}

func (n *Node) renderSet(r *Renderer, op token.Op, rhs Expr) (ir.NodeID, error) {
	b := n.Binding
	steps := n.Steps()
	last := steps[len(steps)-1]

	c, ok, err := n.walk(r, steps[:len(steps)-1])
	if !ok {
		return ir.NoNode, err
	}
	if c.prev == nil {
		if _, isStatic := b.RootItem().Static(last.StaticName()); isStatic {
			return ir.NoNode, r.errorf(diag.RenderUnsupportedTarget, last.Span(), "cannot assign to static %q", last.StaticName())
		}
	}
	next, found, err := n.locate(r, c, last)
	if !found {
		return ir.NoNode, err
	}
	it := b.Item(next)
	if _, isStatic := it.Static(last.StaticName()); isStatic {
		return ir.NoNode, r.errorf(diag.RenderUnsupportedTarget, last.Span(), "cannot assign to static %q", last.StaticName())
	}

	key, err := last.RenderParam(r, b)
	if err != nil || key == r.Net.Empty() {
		return ir.NoNode, err
	}
	if err := rhs.Render(r); err != nil {
		return ir.NoNode, err
	}
	if rhs.Result() == r.Net.Empty() {
		return ir.NoNode, nil
	}

	tables := []bind.Table{it.Setter}
	if op != token.OpAssign {
		tables = []bind.Table{it.Overloads, b.Overloads}
	}
	head := op.Symbol()
	tried := bind.Tiers(head, c.prevType, last.KeyType(), rhs.Type())
	fn, _ := bind.ResolveAny(tried, tables...)
	args := append(containerArgs(c.prev), key, rhs.Result())

	if fn == nil && len(steps) >= 2 {
		r.mute++
		err := last.RenderGet(r, b, next, c.prev, c.prevType)
		r.mute--
		if err != nil {
			return ir.NoNode, err
		}
		if last.Result() != r.Net.Empty() {
			folded := bind.Tiers(head, last.Type(), rhs.Type())
			tried = append(tried, folded...)
			if fn, _ = bind.ResolveAny(folded, tables...); fn != nil {
				args = []ir.NodeID{last.Result(), rhs.Result()}
			}
		}
	}
	if fn == nil {
		what := "setter"
		if op != token.OpAssign {
			what = "operator overload '" + head + "'"
		}
		return ir.NoNode, r.errorf(diag.RenderMissingSetter, n.span, "No %s found for %s (tried %s)",
			what, n.String(), strings.Join(tried, ", "))
	}
	stmt := ir.Call(r.Net, r.function(fn), args)
	r.record(stmt)
	return stmt, nil
}
