// Package dtype is the closed set of declared-type tags used to build
// overload signatures. A tag has no runtime representation.
package dtype

import "fmt"

// Type is a declared-type tag.
type Type uint8

const (
	// None is the accumulator value before the first path step. It never
	// appears inside a signature.
	None Type = iota
	// Any matches every operand; printed as "Var".
	Any
	Asset
	Thesaurus
	Namespace
	Text
	Int
	Double
	Bool
	List
	Cluster
	Neuron
)

var names = [...]string{
	None:      "",
	Any:       "Var",
	Asset:     "A",
	Thesaurus: "Th",
	Namespace: "Ns",
	Text:      "Str",
	Int:       "Int",
	Double:    "Dbl",
	Bool:      "Bool",
	List:      "List",
	Cluster:   "Cl",
	Neuron:    "N",
}

var byName = func() map[string]Type {
	m := make(map[string]Type, len(names))
	for i, n := range names {
		if n != "" {
			m[n] = Type(i)
		}
	}
	return m
}()

// String returns the form used in signatures.
func (t Type) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// IsNone reports whether t is the "no previous step" sentinel.
func (t Type) IsNone() bool { return t == None }

// Concrete reports whether t is neither None nor Any.
func (t Type) Concrete() bool { return t != None && t != Any }

// Parse maps a signature form back to its tag.
func Parse(s string) (Type, error) {
	if t, ok := byName[s]; ok {
		return t, nil
	}
	return None, fmt.Errorf("unknown declared type %q", s)
}

// All lists every printable tag in declaration order.
func All() []Type {
	out := make([]Type, 0, len(names)-1)
	for i := 1; i < len(names); i++ {
		out = append(out, Type(i))
	}
	return out
}
