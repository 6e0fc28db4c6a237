package ir

import (
	"strings"
	"testing"
)

func TestNetwork_Interning(t *testing.T) {
	n := NewNetwork()
	if n.InternText("name") != n.InternText("name") {
		t.Fatal("text not interned")
	}
	// "é" composed vs decomposed
	if n.InternText("caf\u00e9") != n.InternText("cafe\u0301") {
		t.Fatal("text not NFC-normalised")
	}
	a := n.InternCompound([]string{"big", "red"})
	if a != n.InternCompound([]string{"big", "red"}) {
		t.Fatal("compound not interned")
	}
	if a == n.InternCompound([]string{"red", "big"}) {
		t.Fatal("compound ignores word order")
	}
	if n.InternInt(3) != n.InternInt(3) || n.InternInt(3) == n.InternInt(4) {
		t.Fatal("int interning broken")
	}
}

func TestNetwork_Placeholders(t *testing.T) {
	n := NewNetwork()
	if n.Node(n.Empty()).Kind != KindEmpty || n.Node(n.LastResult()).Kind != KindLastResult {
		t.Fatal("placeholders have wrong kinds")
	}
	if n.Node(NoNode) != nil {
		t.Fatal("NoNode resolved to a node")
	}
}

func TestNetwork_Lookup(t *testing.T) {
	n := NewNetwork()
	if _, ok := n.Lookup("red"); ok {
		t.Fatal("lookup found undefined constant")
	}
	want := n.DefineConstant("red")
	got, ok := n.Lookup("red")
	if !ok || got != want {
		t.Fatalf("Lookup = %v, %v", got, ok)
	}
	if n.Named(KindFunction, "red") == want {
		t.Fatal("named nodes of different kinds collide")
	}
}

func TestFormatAndDump(t *testing.T) {
	n := NewNetwork()
	fn := n.Named(KindFunction, "get")
	v := n.Named(KindVariable, "v")
	res := Result(n, fn, []NodeID{v, n.InternText("x"), n.InternInt(2)})
	if got := Format(n, res); got != `get($v, "x", 2)` {
		t.Fatalf("Format = %s", got)
	}
	cb := n.MakeList([]NodeID{Pop(n, v), Return(n, res)}, TagCallback)
	stmts := []NodeID{Push(n, v), Call(n, n.Named(KindFunction, "this"), []NodeID{cb})}
	var sb strings.Builder
	if err := Dump(&sb, n, stmts, DumpOptions{Indent: "  "}); err != nil {
		t.Fatal(err)
	}
	want := "  push $v\n  call this(callback{pop $v; return get($v, \"x\", 2)})\n"
	if sb.String() != want {
		t.Fatalf("Dump =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestDump_RejectsValues(t *testing.T) {
	n := NewNetwork()
	res := Result(n, n.Named(KindFunction, "get"), nil)
	var sb strings.Builder
	err := Dump(&sb, n, []NodeID{Eval(n, res), res}, DumpOptions{})
	if err == nil || !strings.Contains(err.Error(), "not a statement") {
		t.Fatalf("Dump error = %v", err)
	}
	if sb.String() != "eval get()\n" {
		t.Errorf("Dump wrote %q before failing", sb.String())
	}
}
