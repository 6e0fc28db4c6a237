package bind

import (
	"slices"
	"strings"

	"synapse/internal/dtype"
)

// Sep joins the parts of a signature.
const Sep = "-"

// Reserved override-hook signatures.
var (
	// HookGet replaces the default value of a whole path.
	HookGet = "this" + Sep + dtype.Any.String() + ":" + dtype.Any.String()
	// HookSet replaces the default assignment to a whole path.
	HookSet = "this" + Sep + dtype.Any.String()
	// HookShort is the zero-argument form accepted for both.
	HookShort = "this"
)

// Sig joins head and the operand types. None operands are skipped.
func Sig(head string, types ...dtype.Type) string {
	var sb strings.Builder
	sb.WriteString(head)
	for _, t := range types {
		if t.IsNone() {
			continue
		}
		sb.WriteString(Sep)
		sb.WriteString(t.String())
	}
	return sb.String()
}

// Tiers lists the candidate signatures for the operands, most specific
// first:
//
//	(t1, …, tn)  →  (t1, …, tn-1, Any)  →  (Any, …, Any)
//
// None operands are dropped before tiering. Duplicates are removed without
// changing the order.
func Tiers(head string, types ...dtype.Type) []string {
	ops := make([]dtype.Type, 0, len(types))
	for _, t := range types {
		if !t.IsNone() {
			ops = append(ops, t)
		}
	}
	if len(ops) == 0 {
		return []string{head}
	}
	generic := slices.Clone(ops)
	generic[len(generic)-1] = dtype.Any
	all := make([]dtype.Type, len(ops))
	for i := range all {
		all[i] = dtype.Any
	}
	return dedup([]string{Sig(head, ops...), Sig(head, generic...), Sig(head, all...)})
}

// CallCandidates lists the keys tried for ":name(args…)": every argument
// type appended, the same arity with Any, and the bare legacy name used
// by definitions written before signatures existed.
func CallCandidates(name string, args []dtype.Type) []string {
	typed := make([]dtype.Type, 0, len(args))
	generic := make([]dtype.Type, 0, len(args))
	for _, a := range args {
		if a.IsNone() {
			a = dtype.Any
		}
		typed = append(typed, a)
		generic = append(generic, dtype.Any)
	}
	return dedup([]string{Sig(name, typed...), Sig(name, generic...), name})
}

func dedup(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
