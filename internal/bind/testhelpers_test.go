package bind

import (
	"testing"

	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/source"
	"synapse/internal/token"
)

func fn(name string, result dtype.Type, params ...dtype.Type) *Function {
	return &Function{Name: name, Params: params, Result: result}
}

func lenient(t *testing.T) (*diag.Sink, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	return diag.NewSink(diag.BagReporter{Bag: bag}), bag
}

func mustItem(t *testing.T, b *Binding, kind Kind, name string, op token.Op) ItemID {
	t.Helper()
	id, err := b.AddItem(kind, name, op, source.NoSpan, diag.StrictSink())
	if err != nil {
		t.Fatalf("AddItem(%s): %v", name, err)
	}
	return id
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// acyclicBinding: root -.-> field -[-> slot
func acyclicBinding(t *testing.T) *Binding {
	t.Helper()
	strict := diag.StrictSink()
	b := New("asset", token.OpHash)
	b.UseStatics = true
	root := b.DefineRoot(source.NoSpan)
	field := mustItem(t, b, KindIndex, "field", token.OpDot)
	slot := mustItem(t, b, KindIndex, "slot", token.OpOptionStart)
	colors := mustItem(t, b, KindBind, "colors", token.OpWord)
	b.AddRef(root, "field")
	b.AddRef(field, "slot")
	must(t, b.AddStatic(root, "color", "colors", source.NoSpan, strict))
	must(t, b.DefineGetter(field, Sig(".", dtype.Any), fn("GetField", dtype.Asset, dtype.Any), strict))
	must(t, b.DefineGetter(field, Sig(".", dtype.Asset, dtype.Any), fn("GetSub", dtype.Asset, dtype.Asset, dtype.Any), strict))
	must(t, b.DefineSetter(field, Sig("=", dtype.Asset, dtype.Any, dtype.Any), fn("SetField", dtype.None, dtype.Asset, dtype.Any, dtype.Any), strict))
	must(t, b.DefineGetter(slot, Sig("[", dtype.Asset, dtype.Int), fn("GetSlot", dtype.Text, dtype.Asset, dtype.Int), strict))
	must(t, b.DefineGetter(colors, Sig(".", dtype.Any), fn("GetColor", dtype.Text, dtype.Any), strict))
	must(t, b.DefineGlobalOverload(Sig("+", dtype.Int, dtype.Int), fn("Add", dtype.Int, dtype.Int, dtype.Int), strict))
	must(t, b.ResolveAllReferences(strict))
	return b
}

// selfRefBinding: a function section that may follow itself.
func selfRefBinding(t *testing.T) *Binding {
	t.Helper()
	strict := diag.StrictSink()
	b := New("calls", token.OpHash)
	calls := mustItem(t, b, KindFunctions, "calls", token.OpCall)
	b.AddRef(b.Root(), "calls")
	b.AddRef(calls, "calls")
	must(t, b.DefineFunction(calls, Sig("count"), fn("Count", dtype.Int), strict))
	must(t, b.DefineFunction(calls, Sig("find", dtype.Text), fn("Find", dtype.Neuron, dtype.Text), strict))
	must(t, b.DefineHook(HookGet, fn("Wrap", dtype.Any, dtype.Cluster), strict))
	must(t, b.ResolveAllReferences(strict))
	return b
}

// mutualBinding: a -:-> b -.-> a
func mutualBinding(t *testing.T) *Binding {
	t.Helper()
	strict := diag.StrictSink()
	b := New("mutual", token.OpCaret)
	a := mustItem(t, b, KindFunctions, "a", token.OpCall)
	bb := mustItem(t, b, KindIndex, "b", token.OpDot)
	b.AddRef(b.Root(), "b")
	b.AddRef(a, "b")
	b.AddRef(bb, "a")
	must(t, b.DefineFunction(a, "len", fn("Len", dtype.Int), strict))
	must(t, b.DefineGetter(bb, Sig(".", dtype.Any), fn("GetB", dtype.Neuron, dtype.Any), strict))
	must(t, b.ResolveAllReferences(strict))
	return b
}
