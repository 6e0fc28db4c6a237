package path

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/ir"
	"synapse/internal/source"
	"synapse/internal/token"
)

func TestRenderGet_SignatureTiers(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *bind.Binding) *Node
		want  string
	}{
		{
			name: "typed key",
			build: func(b *bind.Binding) *Node {
				return NewNode(b, source.NoSpan, Dot("x", source.NoSpan), Index(Int(1, source.NoSpan), source.NoSpan))
			},
			want: `GetSlotInt(GetField("x"), 1)`,
		},
		{
			name: "last operand generic",
			build: func(b *bind.Binding) *Node {
				return NewNode(b, source.NoSpan, Dot("x", source.NoSpan), Index(Text("k", source.NoSpan), source.NoSpan))
			},
			want: `GetSlotAny(GetField("x"), "k")`,
		},
		{
			name: "all generic",
			build: func(b *bind.Binding) *Node {
				return NewNode(b, source.NoSpan, Ref(Var("v", source.NoSpan), token.OpDot, source.NoSpan),
					Index(Text("k", source.NoSpan), source.NoSpan))
			},
			want: `GetSlotVar($v, "k")`,
		},
		{
			name: "arrow",
			build: func(b *bind.Binding) *Node {
				return NewNode(b, source.NoSpan, Arrow(token.OpArrowRight, "bob", source.NoSpan))
			},
			want: `GetOwner("bob")`,
		},
		{
			name: "compound",
			build: func(b *bind.Binding) *Node {
				return NewNode(b, source.NoSpan, Compound([]string{"big", "red"}, source.NoSpan))
			},
			want: `GetField({big red})`,
		},
		{
			name: "typed call",
			build: func(b *bind.Binding) *Node {
				return NewNode(b, source.NoSpan, Dot("x", source.NoSpan),
					Call("describe", []Expr{Int(1, source.NoSpan)}, source.NoSpan))
			},
			want: `DescribeInt(GetField("x"), 1)`,
		},
		{
			name: "legacy call name",
			build: func(b *bind.Binding) *Node {
				return NewNode(b, source.NoSpan, Dot("x", source.NoSpan),
					Call("describe", []Expr{Text("a", source.NoSpan)}, source.NoSpan))
			},
			want: `Describe(GetField("x"), "a")`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			n := tt.build(assetBinding(t))
			check(t, n.RenderGet(f.r))
			if got := ir.Format(f.net, n.Result()); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			if f.bag.Len() != 0 {
				t.Errorf("unexpected diagnostics: %v", f.codes())
			}
		})
	}
}

func TestRenderGet_Idempotent(t *testing.T) {
	f := newFixture(t)
	b := assetBinding(t)
	n := NewNode(b, source.NoSpan, Dot("x", source.NoSpan), Index(Int(1, source.NoSpan), source.NoSpan))
	check(t, n.RenderGet(f.r))
	first, size := n.Result(), f.net.Len()
	check(t, n.RenderGet(f.r))
	if n.Result() != first || f.net.Len() != size {
		t.Errorf("second render changed state: result %d→%d, nodes %d→%d", first, n.Result(), size, f.net.Len())
	}

	bad := NewNode(b, source.NoSpan, Dot("x", source.NoSpan), Dot("y", source.NoSpan))
	_ = bad.RenderGet(f.r)
	_ = bad.RenderGet(f.r)
	if f.bag.Len() != 1 {
		t.Errorf("failed path reported %d times, want 1", f.bag.Len())
	}
}

func TestRenderGet_StaticRedirect(t *testing.T) {
	t.Run("from root", func(t *testing.T) {
		f := newFixture(t)
		n := NewNode(assetBinding(t), source.NoSpan, Dot("color", source.NoSpan), Dot("red", source.NoSpan))
		check(t, n.RenderGet(f.r))
		if got := ir.Format(f.net, n.Result()); got != `GetShade("red")` {
			t.Errorf("got %s", got)
		}
		if _, ok := f.net.LookupText("color"); ok {
			t.Error("static literal was rendered as a runtime text value")
		}
	})
	t.Run("from landing item", func(t *testing.T) {
		f := newFixture(t)
		n := NewNode(assetBinding(t), source.NoSpan,
			Dot("x", source.NoSpan), Index(Int(1, source.NoSpan), source.NoSpan),
			Dot("warm", source.NoSpan), Dot("red", source.NoSpan))
		check(t, n.RenderGet(f.r))
		if got := ir.Format(f.net, n.Result()); got != `GetShade("red")` {
			t.Errorf("got %s", got)
		}
		if _, ok := f.net.LookupText("warm"); ok {
			t.Error("static literal was rendered as a runtime text value")
		}
	})
	t.Run("non-static literal", func(t *testing.T) {
		f := newFixture(t)
		n := NewNode(assetBinding(t), source.NoSpan,
			Dot("x", source.NoSpan), Index(Int(1, source.NoSpan), source.NoSpan), Dot("other", source.NoSpan))
		check(t, n.RenderGet(f.r))
		if got := ir.Format(f.net, n.Result()); got != `GetTone(GetSlotInt(GetField("x"), 1), "other")` {
			t.Errorf("got %s", got)
		}
	})
}

func TestRenderGet_UseStatics(t *testing.T) {
	f := newFixture(t)
	b := assetBinding(t)
	b.UseStatics = true
	f.net.DefineConstant("x")
	n := NewNode(b, source.NoSpan, Dot("x", source.NoSpan))
	check(t, n.RenderGet(f.r))
	if got := ir.Format(f.net, n.Result()); got != `GetField(&x)` {
		t.Errorf("got %s", got)
	}
}

func TestRenderGet_InvalidOperator(t *testing.T) {
	f := newFixture(t)
	n := NewNode(assetBinding(t), source.NoSpan,
		Dot("x", source.NoSpan), Index(Int(1, source.NoSpan), at(4)), Index(Int(2, source.NoSpan), at(7)))
	if err := n.RenderGet(f.r); err != nil {
		t.Fatalf("lenient render returned %v", err)
	}
	if n.Result() != f.net.Empty() {
		t.Errorf("result = %s, want <empty>", ir.Format(f.net, n.Result()))
	}
	items := f.bag.Items()
	if len(items) != 1 || items[0].Code != diag.RenderInvalidOperator {
		t.Fatalf("diagnostics = %v", f.codes())
	}
	if !strings.Contains(items[0].Message, "Invalid operator in path") || items[0].Primary != at(7) {
		t.Errorf("diagnostic = %q at %v", items[0].Message, items[0].Primary)
	}
}

func TestRenderGet_StrictFault(t *testing.T) {
	net := ir.NewNetwork()
	r := NewRenderer(t.Context(), net, nil)
	n := NewNode(assetBinding(t), source.NoSpan, Dot("x", source.NoSpan), Dot("y", source.NoSpan))
	err := n.RenderGet(r)
	var fault *diag.Fault
	if !errors.As(err, &fault) || fault.Code != diag.RenderInvalidOperator {
		t.Fatalf("err = %v, want invalid-operator fault", err)
	}
	if n.Result() != net.Empty() {
		t.Error("faulted path must carry the empty placeholder")
	}
}

func TestRenderGet_MissingStep(t *testing.T) {
	f := newFixture(t)
	// function sections have no outgoing edges
	n := NewNode(assetBinding(t), source.NoSpan, Dot("x", source.NoSpan),
		Call("describe", []Expr{Int(1, source.NoSpan)}, source.NoSpan), Dot("y", source.NoSpan))
	_ = n.RenderGet(f.r)
	if diff := cmp.Diff([]diag.Code{diag.RenderInvalidOperator}, f.codes()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	f = newFixture(t)
	b := assetBinding(t)
	tone, _ := b.FindItem("tone")
	b.Item(tone).Getter = bind.Table{}
	n = NewNode(b, source.NoSpan, Dot("x", source.NoSpan), Index(Int(1, source.NoSpan), source.NoSpan), Dot("other", source.NoSpan))
	_ = n.RenderGet(f.r)
	if diff := cmp.Diff([]diag.Code{diag.RenderMissingGetter}, f.codes()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
	if msg := f.bag.Items()[0].Message; !strings.Contains(msg, ".-Str-Var") {
		t.Errorf("message does not list the tried signatures: %q", msg)
	}

	f = newFixture(t)
	n = NewNode(assetBinding(t), source.NoSpan, Dot("x", source.NoSpan), Call("missing", nil, source.NoSpan))
	_ = n.RenderGet(f.r)
	if diff := cmp.Diff([]diag.Code{diag.RenderMissingFunction}, f.codes()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestRenderGet_HookCaptures(t *testing.T) {
	f := newFixture(t)
	n := NewNode(cellBinding(t, bind.HookGet), source.NoSpan,
		Index(Var("v1", source.NoSpan), source.NoSpan), Index(Var("v2", source.NoSpan), source.NoSpan))
	code, err := f.r.Render([]*Statement{{Target: n}})
	check(t, err)

	want := []string{
		"push $v2",
		"push $v1",
		"call RunThread(callback{pop $v1; pop $v2; return GetCell2(GetCell($v1), $v2)})",
	}
	if diff := cmp.Diff(want, f.format(code)); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
	if n.Result() != f.net.LastResult() {
		t.Errorf("hooked path result = %s, want <last>", ir.Format(f.net, n.Result()))
	}
	if len(n.Extra()) != 1 {
		t.Errorf("extra = %v", f.format(n.Extra()))
	}
}

func TestRenderGet_ShortHook(t *testing.T) {
	f := newFixture(t)
	n := NewNode(cellBinding(t, bind.HookShort), source.NoSpan, Index(Var("v", source.NoSpan), source.NoSpan))
	code, err := f.r.Render([]*Statement{{Target: n}})
	check(t, err)
	want := []string{
		"push $v",
		"push callback{pop $v; return GetCell($v)}",
		"call RunThread()",
	}
	if diff := cmp.Diff(want, f.format(code)); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
}

func TestRenderGet_NestedCapturesMerge(t *testing.T) {
	f := newFixture(t)
	inner := NewNode(assetBinding(t), source.NoSpan, Dot("x", source.NoSpan), Index(Var("i", source.NoSpan), source.NoSpan))
	outer := NewNode(cellBinding(t, bind.HookGet), source.NoSpan, Index(inner, source.NoSpan))
	code, err := f.r.Render([]*Statement{{Target: outer}})
	check(t, err)
	want := []string{
		"push $i",
		`call RunThread(callback{pop $i; return GetCell(GetSlotAny(GetField("x"), $i))})`,
	}
	if diff := cmp.Diff(want, f.format(code)); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(inner.CodeRefs(), outer.CodeRefs()); diff != "" {
		t.Errorf("captures were not merged (-inner +outer):\n%s", diff)
	}
}

func TestRender_BarePathEvaluates(t *testing.T) {
	f := newFixture(t)
	n := NewNode(assetBinding(t), source.NoSpan, Dot("x", source.NoSpan))
	code, err := f.r.Render([]*Statement{{Target: n}})
	check(t, err)
	if diff := cmp.Diff([]string{`eval GetField("x")`}, f.format(code)); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
}

func TestRender_StatementTwice(t *testing.T) {
	f := newFixture(t)
	st := &Statement{Target: NewNode(assetBinding(t), source.NoSpan, Dot("x", source.NoSpan))}
	check(t, f.r.RenderStatement(st))
	code, err := f.r.Render([]*Statement{st})
	check(t, err)
	if diff := cmp.Diff([]string{`eval GetField("x")`}, f.format(code)); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
}
