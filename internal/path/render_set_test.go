package path

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/ir"
	"synapse/internal/source"
	"synapse/internal/token"
)

func TestRenderSet(t *testing.T) {
	x := func() Item { return Dot("x", source.NoSpan) }
	one := func() Item { return Index(Int(1, source.NoSpan), source.NoSpan) }
	tests := []struct {
		name  string
		steps func() []Item
		op    token.Op
		rhs   Expr
		want  string
	}{
		{"plain setter", func() []Item { return []Item{x()} }, token.OpAssign, Int(5, source.NoSpan),
			`call SetField("x", 5)`},
		{"container setter", func() []Item { return []Item{x(), one()} }, token.OpAssign, Text("a", source.NoSpan),
			`call SetSlot(GetField("x"), 1, "a")`},
		{"folded global overload", func() []Item { return []Item{x(), one()} }, token.OpAddAssign, Int(2, source.NoSpan),
			`call AddTo(GetSlotInt(GetField("x"), 1), 2)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			steps := tt.steps()
			n := NewNode(assetBinding(t), source.NoSpan, steps[0], steps[1:]...)
			code, err := f.r.Render([]*Statement{{Target: n, Op: tt.op, Value: tt.rhs}})
			check(t, err)
			if diff := cmp.Diff([]string{tt.want}, f.format(code)); diff != "" {
				t.Errorf("code (-want +got):\n%s", diff)
			}
			if f.bag.Len() != 0 {
				t.Errorf("unexpected diagnostics: %v", f.codes())
			}
		})
	}
}

func TestRenderSet_Failures(t *testing.T) {
	tests := []struct {
		name  string
		steps []Item
		op    token.Op
		code  diag.Code
		msg   string
	}{
		{"no overload", []Item{Dot("x", source.NoSpan)}, token.OpSubAssign,
			diag.RenderMissingSetter, "No operator overload '-='"},
		{"no setter after fold", []Item{Dot("x", source.NoSpan), Index(Int(1, source.NoSpan), source.NoSpan)}, token.OpMulAssign,
			diag.RenderMissingSetter, "*=-Str-Int"},
		{"call as key", []Item{Dot("x", source.NoSpan), Call("describe", nil, source.NoSpan)}, token.OpAssign,
			diag.RenderParamUnsupported, "not supported as parameter"},
		{"static target", []Item{Dot("color", source.NoSpan)}, token.OpAssign,
			diag.RenderUnsupportedTarget, "static"},
		{"not an assignment", []Item{Dot("x", source.NoSpan)}, token.OpEq,
			diag.RenderUnsupportedTarget, "not an assignment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			n := NewNode(assetBinding(t), source.NoSpan, tt.steps[0], tt.steps[1:]...)
			check(t, n.RenderSet(f.r, tt.op, Int(2, source.NoSpan)))
			if n.Result() != f.net.Empty() {
				t.Errorf("result = %s, want <empty>", ir.Format(f.net, n.Result()))
			}
			items := f.bag.Items()
			if len(items) != 1 {
				t.Fatalf("diagnostics = %v, want exactly one", f.codes())
			}
			if items[0].Code != tt.code || !strings.Contains(items[0].Message, tt.msg) {
				t.Errorf("got %s %q, want %s containing %q", items[0].Code.ID(), items[0].Message, tt.code.ID(), tt.msg)
			}
			if len(f.r.Code()) != 0 {
				t.Errorf("failed assignment emitted %v", f.format(f.r.Code()))
			}
		})
	}
}

func TestRenderSet_HookWrapsAssignment(t *testing.T) {
	tests := []struct {
		name string
		hook string
		want []string
	}{
		{"callback and value as arguments", bind.HookSet, []string{
			"push $v",
			"push $k",
			"call RunThread(callback{pop $k; pop $v; call SetCell($k, $v)}, $v)",
		}},
		{"short form takes both from the stack", bind.HookShort, []string{
			"push $v",
			"push $k",
			"push $v",
			"push callback{pop $k; pop $v; call SetCell($k, $v)}",
			"call RunThread()",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			n := NewNode(cellBinding(t, tt.hook), source.NoSpan, Index(Var("k", source.NoSpan), source.NoSpan))
			code, err := f.r.Render([]*Statement{{Target: n, Op: token.OpAssign, Value: Var("v", source.NoSpan)}})
			check(t, err)
			if diff := cmp.Diff(tt.want, f.format(code)); diff != "" {
				t.Errorf("code (-want +got):\n%s", diff)
			}
		})
	}
}

// nestedBinding: root -.-> field -.-> field. The setter table always has
// the generic form; specific adds "=-A-Var-Var".
func nestedBinding(t *testing.T, specific bool) *bind.Binding {
	t.Helper()
	s := diag.StrictSink()
	b := bind.New("asset", token.OpHash)
	root := b.DefineRoot(source.NoSpan)
	field := addItem(t, b, bind.KindIndex, "field", token.OpDot)
	b.AddRef(root, "field")
	b.AddRef(field, "field")
	check(t, b.DefineGetter(field, bind.Sig(".", dtype.Any), fn("GetField", dtype.Asset, dtype.Any), s))
	check(t, b.DefineSetter(field, bind.Sig("=", dtype.Any, dtype.Any, dtype.Any), fn("SetAny", dtype.None), s))
	if specific {
		check(t, b.DefineSetter(field, bind.Sig("=", dtype.Asset, dtype.Any, dtype.Any), fn("SetA", dtype.None), s))
	}
	check(t, b.ResolveAllReferences(s))
	return b
}

func TestRenderSet_MostSpecificSetterWins(t *testing.T) {
	tests := []struct {
		name     string
		specific bool
		want     string
	}{
		{"asset container", true, `call SetA(GetField("x"), "y", 3)`},
		{"generic fallback", false, `call SetAny(GetField("x"), "y", 3)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			n := NewNode(nestedBinding(t, tt.specific), source.NoSpan, Dot("x", source.NoSpan), Dot("y", source.NoSpan))
			code, err := f.r.Render([]*Statement{{Target: n, Op: token.OpAssign, Value: Int(3, source.NoSpan)}})
			check(t, err)
			if diff := cmp.Diff([]string{tt.want}, f.format(code)); diff != "" {
				t.Errorf("code (-want +got):\n%s", diff)
			}
			if f.bag.Len() != 0 {
				t.Errorf("unexpected diagnostics: %v", f.codes())
			}
		})
	}
}
