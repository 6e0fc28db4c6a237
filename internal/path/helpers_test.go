package path

import (
	"context"
	"testing"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/ir"
	"synapse/internal/source"
	"synapse/internal/token"
)

type fixture struct {
	net *ir.Network
	bag *diag.Bag
	r   *Renderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	net := ir.NewNetwork()
	bag := diag.NewBag(0)
	return &fixture{
		net: net,
		bag: bag,
		r:   NewRenderer(context.Background(), net, diag.NewSink(diag.BagReporter{Bag: bag})),
	}
}

func (f *fixture) format(ids []ir.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ir.Format(f.net, id)
	}
	return out
}

func (f *fixture) codes() []diag.Code {
	var out []diag.Code
	for _, d := range f.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func fn(name string, result dtype.Type, params ...dtype.Type) *bind.Function {
	return &bind.Function{Name: name, Params: params, Result: result}
}

func check(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func addItem(t *testing.T, b *bind.Binding, kind bind.Kind, name string, op token.Op) bind.ItemID {
	t.Helper()
	id, err := b.AddItem(kind, name, op, source.NoSpan, diag.StrictSink())
	check(t, err)
	return id
}

// assetBinding:
//
//	root  -.->  field  -[->  slot  -.->  tone {warm: colors}
//	      -->-> owner        field -:-> fns
//	root {color: colors}     colors -.-> shade
func assetBinding(t *testing.T) *bind.Binding {
	t.Helper()
	s := diag.StrictSink()
	b := bind.New("asset", token.OpHash)
	root := b.DefineRoot(source.NoSpan)
	field := addItem(t, b, bind.KindIndex, "field", token.OpDot)
	slot := addItem(t, b, bind.KindIndex, "slot", token.OpOptionStart)
	tone := addItem(t, b, bind.KindBind, "tone", token.OpDot)
	colors := addItem(t, b, bind.KindBind, "colors", token.OpWord)
	shade := addItem(t, b, bind.KindIndex, "shade", token.OpDot)
	fns := addItem(t, b, bind.KindFunctions, "fns", token.OpCall)
	owner := addItem(t, b, bind.KindIndex, "owner", token.OpArrowRight)

	b.AddRef(root, "field")
	b.AddRef(root, "owner")
	b.AddRef(field, "slot")
	b.AddRef(field, "fns")
	b.AddRef(slot, "tone")
	b.AddRef(colors, "shade")
	check(t, b.AddStatic(root, "color", "colors", source.NoSpan, s))
	check(t, b.AddStatic(tone, "warm", "colors", source.NoSpan, s))

	check(t, b.DefineGetter(field, bind.Sig(".", dtype.Any), fn("GetField", dtype.Asset, dtype.Any), s))
	check(t, b.DefineSetter(field, bind.Sig("=", dtype.Any, dtype.Any), fn("SetField", dtype.None, dtype.Any, dtype.Any), s))
	check(t, b.DefineGetter(slot, bind.Sig("[", dtype.Asset, dtype.Int), fn("GetSlotInt", dtype.Text, dtype.Asset, dtype.Int), s))
	check(t, b.DefineGetter(slot, bind.Sig("[", dtype.Asset, dtype.Any), fn("GetSlotAny", dtype.Text, dtype.Asset, dtype.Any), s))
	check(t, b.DefineGetter(slot, bind.Sig("[", dtype.Any, dtype.Any), fn("GetSlotVar", dtype.Text, dtype.Any, dtype.Any), s))
	check(t, b.DefineSetter(slot, bind.Sig("=", dtype.Asset, dtype.Int, dtype.Any), fn("SetSlot", dtype.None), s))
	check(t, b.DefineGetter(tone, bind.Sig(".", dtype.Text, dtype.Any), fn("GetTone", dtype.Text), s))
	check(t, b.DefineGetter(shade, bind.Sig(".", dtype.Any), fn("GetShade", dtype.Text), s))
	check(t, b.DefineGetter(owner, bind.Sig("->", dtype.Any), fn("GetOwner", dtype.Asset), s))
	check(t, b.DefineFunction(fns, "describe", fn("Describe", dtype.Text), s))
	check(t, b.DefineFunction(fns, bind.Sig("describe", dtype.Int), fn("DescribeInt", dtype.Text, dtype.Int), s))
	check(t, b.DefineGlobalOverload(bind.Sig("+=", dtype.Any, dtype.Any), fn("AddTo", dtype.None), s))
	check(t, b.ResolveAllReferences(s))
	return b
}

// cellBinding: root -[-> cell -[-> cell, with the given override hook.
func cellBinding(t *testing.T, hookSig string) *bind.Binding {
	t.Helper()
	s := diag.StrictSink()
	b := bind.New("net", token.OpTilde)
	root := b.DefineRoot(source.NoSpan)
	cell := addItem(t, b, bind.KindIndex, "cell", token.OpOptionStart)
	b.AddRef(root, "cell")
	b.AddRef(cell, "cell")
	check(t, b.DefineGetter(cell, bind.Sig("[", dtype.Any), fn("GetCell", dtype.Any), s))
	check(t, b.DefineGetter(cell, bind.Sig("[", dtype.Any, dtype.Any), fn("GetCell2", dtype.Any), s))
	check(t, b.DefineSetter(cell, bind.Sig("=", dtype.Any, dtype.Any), fn("SetCell", dtype.None), s))
	if hookSig != "" {
		check(t, b.DefineHook(hookSig, fn("RunThread", dtype.Any), s))
	}
	check(t, b.ResolveAllReferences(s))
	return b
}

func at(n int) source.Span { return source.Span{Start: uint32(n), End: uint32(n + 1)} }
