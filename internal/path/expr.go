package path

import (
	"synapse/internal/dtype"
	"synapse/internal/ir"
	"synapse/internal/source"
)

// Expr is a renderable value: a literal, a variable or a nested path.
// Render is idempotent.
type Expr interface {
	Render(r *Renderer) error
	Result() ir.NodeID
	Type() dtype.Type
	Span() source.Span
}

// LitKind selects the payload of a Literal.
type LitKind uint8

const (
	LitText LitKind = iota
	LitInt
	LitDouble
)

// Literal is a constant text or number.
type Literal struct {
	Kind LitKind
	Text string
	Int  int64
	Dbl  float64

	span   source.Span
	result ir.NodeID
}

func Text(s string, sp source.Span) *Literal { return &Literal{Kind: LitText, Text: s, span: sp} }

func Int(v int64, sp source.Span) *Literal { return &Literal{Kind: LitInt, Int: v, span: sp} }

func Double(v float64, sp source.Span) *Literal { return &Literal{Kind: LitDouble, Dbl: v, span: sp} }

func (l *Literal) Render(r *Renderer) error {
	if l.result.IsValid() {
		return nil
	}
	switch l.Kind {
	case LitInt:
		l.result = r.Net.InternInt(l.Int)
	case LitDouble:
		l.result = r.Net.InternDouble(l.Dbl)
	default:
		l.result = r.Net.InternText(l.Text)
	}
	return nil
}

func (l *Literal) Result() ir.NodeID { return l.result }
func (l *Literal) Span() source.Span { return l.span }

func (l *Literal) Type() dtype.Type {
	switch l.Kind {
	case LitInt:
		return dtype.Int
	case LitDouble:
		return dtype.Double
	default:
		return dtype.Text
	}
}

// VarRef is a runtime variable ("$name"). Rendering it registers the
// variable as a captured value of the enclosing path.
type VarRef struct {
	Name string

	span   source.Span
	result ir.NodeID
}

func Var(name string, sp source.Span) *VarRef { return &VarRef{Name: name, span: sp} }

func (v *VarRef) Render(r *Renderer) error {
	if v.result.IsValid() {
		return nil
	}
	v.result = r.Net.Named(ir.KindVariable, v.Name)
	r.capture(v.result)
	return nil
}

func (v *VarRef) Result() ir.NodeID { return v.result }
func (v *VarRef) Type() dtype.Type  { return dtype.Any }
func (v *VarRef) Span() source.Span { return v.span }
