package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/source"
	"synapse/internal/token"
)

const assetManifest = `
[[binding]]
name = "asset"
operator = "#"
use-statics = true
register = true
refs = ["field"]

  [binding.root]
  statics = { color = "colors" }

  [[binding.item]]
  name = "field"
  kind = "index"
  operator = "."
  refs = ["slot", "field"]
    [binding.item.getters]
    ".-Var" = { fn = "GetField", params = ["Var"], result = "A" }
    ".-A-Var" = "GetSub"
    [binding.item.setters]
    "=-A-Var-Var" = { fn = "SetField", params = ["A", "Var", "Var"] }

  [[binding.item]]
  name = "slot"
  kind = "index"
  operator = "option-start"

  [[binding.item]]
  name = "colors"
  kind = "bind"
  operator = "word"

  [binding.hooks]
  "this-Var:Var" = "RunThread"

  [binding.overloads]
  "+=-Var-Var" = { fn = "AddTo" }

[[binding]]
name = "net"
operator = "~"
refs = ["calls"]

  [[binding.item]]
  name = "calls"
  kind = "functions"
  operator = ":"
    [binding.item.functions]
    "send-Str" = { fn = "Send", params = ["Str"], result = "Bool" }
`

func parseString(t *testing.T, src string, sink *diag.Sink) ([]*bind.Binding, error) {
	t.Helper()
	fs := source.NewFileSet()
	return Parse(context.Background(), fs.Get(fs.Add("a.bind.toml", []byte(src))), sink)
}

func TestParse_Bindings(t *testing.T) {
	bag := diag.NewBag(0)
	bs, err := parseString(t, assetManifest, diag.NewSink(diag.BagReporter{Bag: bag}))
	if err != nil {
		t.Fatal(err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(bs) != 2 {
		t.Fatalf("got %d bindings", len(bs))
	}

	asset := bs[0]
	if asset.Operator != token.OpHash || !asset.UseStatics || !asset.Register || !asset.HasRoot() {
		t.Errorf("binding flags not applied: %+v", asset)
	}
	root := asset.RootItem()
	colors, _ := asset.FindItem("colors")
	if got, ok := root.Static("color"); !ok || got != colors {
		t.Errorf("root static color = %d, want %d", got, colors)
	}
	fieldID, _ := asset.FindItem("field")
	field := asset.Item(fieldID)
	if next, ok := field.NextItem(token.OpDot); !ok || next != fieldID {
		t.Error("field should reference itself under '.'")
	}
	want := &bind.Function{Name: "GetField", Params: []dtype.Type{dtype.Any}, Result: dtype.Asset}
	if got := field.Getter[".-Var"]; !got.Equal(want) {
		t.Errorf("getter = %s, want %s", got, want)
	}
	if diff := cmp.Diff([]string{".-A-Var", ".-Var"}, field.Getter.Keys()); diff != "" {
		t.Errorf("getter keys (-want +got):\n%s", diff)
	}
	if fn, short := asset.Hook(bind.HookGet); fn == nil || short || fn.Name != "RunThread" {
		t.Errorf("hook = %v (short %v)", fn, short)
	}
	if asset.Overloads["+=-Var-Var"].Name != "AddTo" {
		t.Error("global overload missing")
	}

	net := bs[1]
	calls, _ := net.FindItem("calls")
	if net.Item(calls).Functions["send-Str"].Result != dtype.Bool {
		t.Error("function result type not decoded")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"syntax", "[[binding]\nname = 1", diag.IOManifestError, ""},
		{"operator", "[[binding]]\nname = \"a\"\noperator = \".\"", diag.IOManifestError, "operator must be"},
		{"kind", "[[binding]]\nname = \"a\"\noperator = \"#\"\n[[binding.item]]\nname = \"x\"\nkind = \"leaf\"\noperator = \".\"", diag.IOManifestError, "unknown kind"},
		{"type", "[[binding]]\nname = \"a\"\noperator = \"#\"\n[[binding.item]]\nname = \"x\"\nkind = \"index\"\noperator = \".\"\n[binding.item.getters]\n\".-Q\" = { fn = \"F\", result = \"Q\" }", diag.BindBadSignature, "unknown declared type"},
		{"unresolved", "[[binding]]\nname = \"a\"\noperator = \"#\"\nrefs = [\"ghost\"]", diag.BindUnresolvedReference, "ghost"},
		{"duplicate item", "[[binding]]\nname = \"a\"\noperator = \"#\"\n[[binding.item]]\nname = \"x\"\nkind = \"base\"\noperator = \".\"\n[[binding.item]]\nname = \"x\"\nkind = \"base\"\noperator = \"[\"", diag.BindDuplicateItem, "already defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := diag.NewBag(0)
			if _, err := parseString(t, tt.src, diag.NewSink(diag.BagReporter{Bag: bag})); err != nil {
				t.Fatalf("lenient parse returned %v", err)
			}
			if !bag.HasErrors() {
				t.Fatal("expected an error diagnostic")
			}
			d := bag.Items()[0]
			if d.Code != tt.code || !strings.Contains(d.Message, tt.msg) {
				t.Errorf("got %s %q, want %s containing %q", d.Code.ID(), d.Message, tt.code.ID(), tt.msg)
			}
		})
	}
}

func TestParse_StrictFault(t *testing.T) {
	_, err := parseString(t, "[[binding]]\nname = \"a\"\noperator = \"#\"\nrefs = [\"ghost\"]", diag.StrictSink())
	var fault *diag.Fault
	if !errors.As(err, &fault) || fault.Code != diag.BindUnresolvedReference {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), source.NewFileSet(), filepath.Join(t.TempDir(), "none.bind.toml"), diag.StrictSink())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
