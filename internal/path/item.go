package path

import (
	"strings"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/ir"
	"synapse/internal/source"
	"synapse/internal/token"
)

// Item is one step of a path.
type Item interface {
	Op() token.Op
	Span() source.Span
	// Result is the value node of the step, NoNode until rendered.
	Result() ir.NodeID
	// Type is the declared type of Result, the accumulator for the next
	// step. None after a static step.
	Type() dtype.Type
	// KeyType is the declared type of the step's own operand.
	KeyType() dtype.Type
	// StaticName is the literal that may select a static sub-item, "" for
	// steps that never redirect.
	StaticName() string
	// NextItem is the grammar check for this step from cur.
	NextItem(b *bind.Binding, cur bind.ItemID) (bind.ItemID, bool)
	// RenderGet renders the step's value using the tables of cur, the item
	// the step landed on.
	RenderGet(r *Renderer, b *bind.Binding, cur bind.ItemID, prev Item, prevType dtype.Type) error
	// RenderParam renders the step as the key operand of an assignment.
	RenderParam(r *Renderer, b *bind.Binding) (ir.NodeID, error)

	redirect() (bind.ItemID, bool)
	markStatic(r *Renderer, target bind.ItemID)
}

// step holds the state shared by all items.
type step struct {
	kind    string
	op      token.Op
	span    source.Span
	literal string

	result ir.NodeID
	typ    dtype.Type
	static bind.ItemID
}

func (s *step) Op() token.Op        { return s.op }
func (s *step) Span() source.Span   { return s.span }
func (s *step) Result() ir.NodeID   { return s.result }
func (s *step) Type() dtype.Type    { return s.typ }
func (s *step) KeyType() dtype.Type { return dtype.Any }
func (s *step) StaticName() string  { return s.literal }

func (s *step) NextItem(b *bind.Binding, cur bind.ItemID) (bind.ItemID, bool) {
	return b.Item(cur).NextItem(s.op)
}

// RenderParam is unsupported unless the variant overrides it.
func (s *step) RenderParam(r *Renderer, _ *bind.Binding) (ir.NodeID, error) {
	return r.Net.Empty(), r.errorf(diag.RenderParamUnsupported, s.span, "%s segment is not supported as parameter", s.kind)
}

func (s *step) redirect() (bind.ItemID, bool) { return s.static, s.static.IsValid() }

// markStatic turns the step into a compile-time reference to target.
func (s *step) markStatic(r *Renderer, target bind.ItemID) {
	s.static = target
	s.result = r.Net.Named(ir.KindConstant, s.literal)
	s.typ = dtype.None
}

func (s *step) fail(r *Renderer) {
	s.result = r.Net.Empty()
	s.typ = dtype.Any
}

// get resolves the getter of cur for (prevType, keyType) and renders the
// call.
func (s *step) get(r *Renderer, b *bind.Binding, cur bind.ItemID, prev Item, prevType dtype.Type, key ir.NodeID, keyType dtype.Type) error {
	it := b.Item(cur)
	cands := bind.Tiers(s.op.Symbol(), prevType, keyType)
	var fn *bind.Function
	if it.HasTables() {
		fn, _ = bind.Resolve(cands, it.Getter)
	}
	if fn == nil {
		s.fail(r)
		return r.errorf(diag.RenderMissingGetter, s.span, "No getter found for %s in %s (tried %s)",
			s.describe(), itemLabel(b, cur), strings.Join(cands, ", "))
	}
	args := append(containerArgs(prev), key)
	s.result = ir.Result(r.Net, r.function(fn), args)
	s.typ = resultType(fn)
	r.record(s.result)
	return nil
}

func (s *step) describe() string {
	if s.literal != "" {
		return s.op.Symbol() + s.literal
	}
	return "'" + s.op.Symbol() + "'"
}

// containerArgs is the leading operand passed on from prev: nothing at
// the first step and after a static step.
func containerArgs(prev Item) []ir.NodeID {
	if prev == nil {
		return nil
	}
	if _, ok := prev.redirect(); ok {
		return nil
	}
	return []ir.NodeID{prev.Result()}
}

func resultType(fn *bind.Function) dtype.Type {
	if fn.Result.IsNone() {
		return dtype.Any
	}
	return fn.Result
}

func itemLabel(b *bind.Binding, id bind.ItemID) string {
	if id == b.Root() {
		return "binding " + b.Name
	}
	if it := b.Item(id); it != nil && it.Name != "" {
		return it.Name
	}
	return "?"
}
