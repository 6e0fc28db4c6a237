package bind

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/token"
)

func encodeBytes(t *testing.T, b *Binding) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestCodec_RoundTripByteIdentical(t *testing.T) {
	tests := []struct {
		name  string
		build func(*testing.T) *Binding
	}{
		{"acyclic", acyclicBinding},
		{"self_reference", selfRefBinding},
		{"mutual_reference", mutualBinding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.build(t)
			first := encodeBytes(t, b)
			b2, err := Decode(bytes.NewReader(first), b.Name)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			second := encodeBytes(t, b2)
			if !bytes.Equal(first, second) {
				t.Fatalf("round trip not byte-identical:\nfirst  %x\nsecond %x", first, second)
			}
			if !b2.Linked() {
				t.Fatal("decoded binding left references pending")
			}
		})
	}
}

func TestCodec_RestoresStructure(t *testing.T) {
	b := acyclicBinding(t)
	b2, err := Decode(bytes.NewReader(encodeBytes(t, b)), "asset")
	if err != nil {
		t.Fatal(err)
	}
	if !b2.HasRoot() || !b2.UseStatics || b2.Operator != token.OpHash {
		t.Fatalf("header not restored: root=%v statics=%v op=%v", b2.HasRoot(), b2.UseStatics, b2.Operator)
	}
	field, ok := b2.FindItem("field")
	if !ok {
		t.Fatal("field missing")
	}
	if got, _ := b2.RootItem().NextItem(token.OpDot); got != field {
		t.Fatal("first-level edge not restored")
	}
	want := b.Item(mustFind(t, b, "field")).Getter
	got := b2.Item(field).Getter
	if diff := cmp.Diff(want.Keys(), got.Keys()); diff != "" {
		t.Fatalf("getter keys differ (-want +got):\n%s", diff)
	}
	for _, k := range want.Keys() {
		if !want[k].Equal(got[k]) {
			t.Fatalf("getter %s: %v != %v", k, want[k], got[k])
		}
	}
	colors := mustFind(t, b2, "colors")
	if got, ok := b2.RootItem().Static("color"); !ok || got != colors {
		t.Fatal("statics not restored")
	}
	if f := b2.Overloads["+-Int-Int"]; f == nil || f.Result != dtype.Int {
		t.Fatalf("global overload not restored: %v", f)
	}
}

func TestCodec_UnresolvedNameIsFault(t *testing.T) {
	b := New("bad", token.OpHash)
	x := mustItem(t, b, KindIndex, "x", token.OpDot)
	b.AddRef(x, "ghost")
	b.AddRef(b.Root(), "x")

	_, err := Decode(bytes.NewReader(encodeBytes(t, b)), "bad")
	var f *diag.Fault
	if !errors.As(err, &f) {
		t.Fatalf("Decode = %v, want *diag.Fault", err)
	}
	if f.Code != diag.BindUnresolvedReference {
		t.Fatalf("fault code = %v", f.Code)
	}
}

func TestCodec_Truncated(t *testing.T) {
	data := encodeBytes(t, acyclicBinding(t))
	_, err := Decode(bytes.NewReader(data[:len(data)/2]), "asset")
	var f *diag.Fault
	if !errors.As(err, &f) || f.Code != diag.IOMalformedInput {
		t.Fatalf("Decode(truncated) = %v", err)
	}
}

func TestLibrary_EncodeAll(t *testing.T) {
	lib := NewLibrary()
	sink, bag := lenient(t)
	a := acyclicBinding(t)
	a.Register = true
	for _, b := range []*Binding{a, selfRefBinding(t), mutualBinding(t)} {
		must(t, lib.Add(b, sink))
	}
	must(t, lib.Add(New("asset", token.OpHash), sink))
	if bag.Len() != 1 {
		t.Fatalf("duplicate binding not reported: %d", bag.Len())
	}
	if got := lib.Registered(); len(got) != 1 || got[0] != a {
		t.Fatalf("Registered = %v", got)
	}

	var buf bytes.Buffer
	must(t, EncodeAll(&buf, lib.Bindings()))
	decoded, err := DecodeAll(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(decoded))
	for i, b := range decoded {
		names[i] = b.Name
	}
	if diff := cmp.Diff([]string{"asset", "calls", "mutual"}, names); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	if !decoded[0].Register || decoded[1].Register {
		t.Fatal("register flags not restored")
	}

	if _, err := DecodeAll(bytes.NewReader([]byte{0xa3, 'b', 'a', 'd'})); err == nil {
		t.Fatal("bad header accepted")
	}
}

func mustFind(t *testing.T, b *Binding, name string) ItemID {
	t.Helper()
	id, ok := b.FindItem(name)
	if !ok {
		t.Fatalf("%s not found", name)
	}
	return id
}
