package bind

import (
	"slices"
	"strings"

	"synapse/internal/dtype"
	"synapse/internal/source"
)

// Function is a callable definition referenced by a binding table. Name is
// the name of the IR function node the renderer calls.
type Function struct {
	Name   string
	Params []dtype.Type
	Result dtype.Type
	Span   source.Span
}

func (f *Function) String() string {
	if f == nil {
		return "<nil>"
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	res := f.Result.String()
	if res == "" {
		res = "none"
	}
	return f.Name + "(" + strings.Join(parts, ", ") + ") " + res
}

// Equal compares the definition, ignoring the span.
func (f *Function) Equal(o *Function) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Name == o.Name && f.Result == o.Result && slices.Equal(f.Params, o.Params)
}

// Table maps a signature to its definition.
type Table map[string]*Function

// Keys returns the signatures in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
