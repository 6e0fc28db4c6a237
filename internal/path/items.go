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

// DotItem is a member access ".name".
type DotItem struct {
	step
	Name string
}

func Dot(name string, sp source.Span) *DotItem {
	return &DotItem{step: step{kind: "member", op: token.OpDot, span: sp, literal: name}, Name: name}
}

func (d *DotItem) RenderGet(r *Renderer, b *bind.Binding, cur bind.ItemID, prev Item, prevType dtype.Type) error {
	if d.result.IsValid() {
		return nil
	}
	if target, ok := b.Item(cur).Static(d.Name); ok {
		d.markStatic(r, target)
		return nil
	}
	key, _ := d.RenderParam(r, b)
	return d.get(r, b, cur, prev, prevType, key, dtype.Any)
}

// RenderParam yields the literal as text, or the constant of that name
// when the binding resolves names through statics.
func (d *DotItem) RenderParam(r *Renderer, b *bind.Binding) (ir.NodeID, error) {
	return wordParam(r, b, d.Name), nil
}

func wordParam(r *Renderer, b *bind.Binding, word string) ir.NodeID {
	if b.UseStatics {
		if id, ok := r.Net.Lookup(word); ok {
			return id
		}
	}
	return r.Net.InternText(word)
}

// CompoundItem is a multi-word member ".{big red}". One word behaves
// exactly like a DotItem.
type CompoundItem struct {
	step
	Words []string
}

func Compound(words []string, sp source.Span) *CompoundItem {
	c := &CompoundItem{step: step{kind: "compound", op: token.OpDot, span: sp}, Words: words}
	if len(words) == 1 {
		c.literal = words[0]
	}
	return c
}

func (c *CompoundItem) RenderGet(r *Renderer, b *bind.Binding, cur bind.ItemID, prev Item, prevType dtype.Type) error {
	if c.result.IsValid() {
		return nil
	}
	if target, ok := b.Item(cur).Static(c.literal); ok {
		c.markStatic(r, target)
		return nil
	}
	key, err := c.RenderParam(r, b)
	if err != nil || key == r.Net.Empty() {
		c.fail(r)
		return err
	}
	return c.get(r, b, cur, prev, prevType, key, dtype.Any)
}

func (c *CompoundItem) RenderParam(r *Renderer, b *bind.Binding) (ir.NodeID, error) {
	switch len(c.Words) {
	case 0:
		return r.Net.Empty(), r.errorf(diag.RenderMissingOperand, c.span, "empty compound name")
	case 1:
		return wordParam(r, b, c.Words[0]), nil
	default:
		return r.Net.InternCompound(c.Words), nil
	}
}

// ArrowItem is a relation step "->name" or "<-name". Arrow targets are
// always runtime text; they never select statics.
type ArrowItem struct {
	step
	PointsTo string
}

// Arrow builds an arrow step; dir is token.OpArrowLeft or token.OpArrowRight.
func Arrow(dir token.Op, pointsTo string, sp source.Span) *ArrowItem {
	return &ArrowItem{step: step{kind: "arrow", op: dir, span: sp}, PointsTo: pointsTo}
}

func (a *ArrowItem) RenderGet(r *Renderer, b *bind.Binding, cur bind.ItemID, prev Item, prevType dtype.Type) error {
	if a.result.IsValid() {
		return nil
	}
	key, err := a.RenderParam(r, b)
	if err != nil || key == r.Net.Empty() {
		a.fail(r)
		return err
	}
	return a.get(r, b, cur, prev, prevType, key, dtype.Any)
}

func (a *ArrowItem) RenderParam(r *Renderer, _ *bind.Binding) (ir.NodeID, error) {
	if a.PointsTo == "" {
		return r.Net.Empty(), r.errorf(diag.RenderMissingOperand, a.span, "arrow %s has no target", a.op.Symbol())
	}
	return r.Net.InternText(a.PointsTo), nil
}

// IndexItem is "[expr]".
type IndexItem struct {
	step
	Index Expr
}

func Index(index Expr, sp source.Span) *IndexItem {
	return &IndexItem{step: step{kind: "index", op: token.OpOptionStart, span: sp}, Index: index}
}

func (x *IndexItem) KeyType() dtype.Type {
	if x.Index == nil {
		return dtype.Any
	}
	return x.Index.Type()
}

func (x *IndexItem) RenderGet(r *Renderer, b *bind.Binding, cur bind.ItemID, prev Item, prevType dtype.Type) error {
	if x.result.IsValid() {
		return nil
	}
	key, err := x.RenderParam(r, b)
	if err != nil || key == r.Net.Empty() {
		x.fail(r)
		return err
	}
	return x.get(r, b, cur, prev, prevType, key, x.KeyType())
}

func (x *IndexItem) RenderParam(r *Renderer, _ *bind.Binding) (ir.NodeID, error) {
	if x.Index == nil {
		return r.Net.Empty(), r.errorf(diag.RenderMissingOperand, x.span, "index has no expression")
	}
	if err := x.Index.Render(r); err != nil {
		return r.Net.Empty(), err
	}
	return x.Index.Result(), nil
}

// CallItem is ":name(args)". It resolves in a functions item and cannot
// be used as an assignment key.
type CallItem struct {
	step
	Name string
	Args []Expr
}

func Call(name string, args []Expr, sp source.Span) *CallItem {
	return &CallItem{step: step{kind: "call", op: token.OpCall, span: sp}, Name: name, Args: args}
}

func (c *CallItem) RenderGet(r *Renderer, b *bind.Binding, cur bind.ItemID, prev Item, prevType dtype.Type) error {
	if c.result.IsValid() {
		return nil
	}
	vals := containerArgs(prev)
	types := make([]dtype.Type, 0, len(c.Args))
	for _, a := range c.Args {
		if err := a.Render(r); err != nil {
			c.fail(r)
			return err
		}
		if a.Result() == r.Net.Empty() {
			c.fail(r)
			return nil
		}
		vals = append(vals, a.Result())
		types = append(types, a.Type())
	}
	cands := bind.CallCandidates(c.Name, types)
	it := b.Item(cur)
	var fn *bind.Function
	if it.HasFunctions() {
		fn, _ = bind.Resolve(cands, it.Functions)
	}
	if fn == nil {
		c.fail(r)
		return r.errorf(diag.RenderMissingFunction, c.span, "No function found for :%s in %s (tried %s)",
			c.Name, itemLabel(b, cur), strings.Join(cands, ", "))
	}
	c.result = ir.Result(r.Net, r.function(fn), vals)
	c.typ = resultType(fn)
	r.record(c.result)
	return nil
}

// RefItem adopts the value of a sub-expression, usually a variable, as a
// path step. Op is the edge it follows; Dot unless set otherwise.
type RefItem struct {
	step
	Expr Expr
}

func Ref(e Expr, op token.Op, sp source.Span) *RefItem {
	if op == token.OpNone {
		op = token.OpDot
	}
	return &RefItem{step: step{kind: "reference", op: op, span: sp}, Expr: e}
}

func (x *RefItem) KeyType() dtype.Type { return x.Expr.Type() }

func (x *RefItem) RenderGet(r *Renderer, _ *bind.Binding, _ bind.ItemID, _ Item, _ dtype.Type) error {
	if x.result.IsValid() {
		return nil
	}
	if err := x.Expr.Render(r); err != nil {
		x.fail(r)
		return err
	}
	x.result = x.Expr.Result()
	x.typ = x.Expr.Type()
	if x.result == r.Net.Empty() {
		return nil
	}
	if x.result != r.Net.LastResult() {
		r.capture(x.result)
	}
	return nil
}

func (x *RefItem) RenderParam(r *Renderer, _ *bind.Binding) (ir.NodeID, error) {
	if err := x.Expr.Render(r); err != nil {
		return r.Net.Empty(), err
	}
	return x.Expr.Result(), nil
}
