// Package manifest loads binding definitions from TOML files.
//
//	[[binding]]
//	name = "asset"
//	operator = "#"
//	use-statics = true
//	refs = ["field"]            # first-level sections
//
//	  [binding.root]            # optional: root tables and statics
//	  statics = { color = "colors" }
//
//	  [[binding.item]]
//	  name = "field"
//	  kind = "index"
//	  operator = "."
//	  refs = ["slot"]
//	    [binding.item.getters]
//	    ".-Var" = { fn = "GetField", params = ["Var"], result = "A" }
//	    ".-A-Var" = "GetSub"
//
//	  [binding.hooks]
//	  "this-Var:Var" = "RunThread"
//	  [binding.overloads]
//	  "+=-Var-Var" = "AddTo"
package manifest

import (
	"fmt"
	"maps"
	"slices"

	"synapse/internal/dtype"
)

// File is the decoded form of a *.bind.toml file.
type File struct {
	Bindings []Binding `toml:"binding"`
}

// Binding describes one binding.
type Binding struct {
	Name       string          `toml:"name"`
	Operator   string          `toml:"operator"`
	UseStatics bool            `toml:"use-statics"`
	Register   bool            `toml:"register"`
	Refs       []string        `toml:"refs"`
	Root       *Section        `toml:"root"`
	Items      []Section       `toml:"item"`
	Hooks      map[string]Func `toml:"hooks"`
	Overloads  map[string]Func `toml:"overloads"`
}

// Section is a binding item, or the root when used as [binding.root].
type Section struct {
	Name      string            `toml:"name"`
	Kind      string            `toml:"kind"`
	Operator  string            `toml:"operator"`
	Refs      []string          `toml:"refs"`
	Statics   map[string]string `toml:"statics"`
	Getters   map[string]Func   `toml:"getters"`
	Setters   map[string]Func   `toml:"setters"`
	Overloads map[string]Func   `toml:"overloads"`
	Functions map[string]Func   `toml:"functions"`
}

// Func is a function reference. A bare string is shorthand for
// { fn = "…" }.
type Func struct {
	Fn     string   `toml:"fn"`
	Params []string `toml:"params"`
	Result string   `toml:"result"`
}

// UnmarshalTOML accepts both the string and the table form.
func (f *Func) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		f.Fn = x
		return nil
	case map[string]any:
		for k, raw := range x {
			switch k {
			case "fn":
				s, ok := raw.(string)
				if !ok {
					return fmt.Errorf("fn must be a string, got %T", raw)
				}
				f.Fn = s
			case "result":
				s, ok := raw.(string)
				if !ok {
					return fmt.Errorf("result must be a string, got %T", raw)
				}
				f.Result = s
			case "params":
				list, ok := raw.([]any)
				if !ok {
					return fmt.Errorf("params must be an array, got %T", raw)
				}
				for _, p := range list {
					s, ok := p.(string)
					if !ok {
						return fmt.Errorf("param must be a string, got %T", p)
					}
					f.Params = append(f.Params, s)
				}
			default:
				return fmt.Errorf("unknown function key %q", k)
			}
		}
		return nil
	}
	return fmt.Errorf("function must be a string or a table, got %T", v)
}

// types resolves the declared type names.
func (f Func) types() (params []dtype.Type, result dtype.Type, err error) {
	for _, p := range f.Params {
		t, err := dtype.Parse(p)
		if err != nil {
			return nil, dtype.None, err
		}
		params = append(params, t)
	}
	if f.Result != "" {
		if result, err = dtype.Parse(f.Result); err != nil {
			return nil, dtype.None, err
		}
	}
	return params, result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
