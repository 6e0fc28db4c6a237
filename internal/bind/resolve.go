package bind

// Resolve returns the function bound to the first candidate present in the
// table, together with the matched signature. The order of cands is the
// overload policy; Resolve never reorders it.
func Resolve(cands []string, table Table) (*Function, string) {
	if len(table) == 0 {
		return nil, ""
	}
	for _, c := range cands {
		if fn, ok := table[c]; ok {
			return fn, c
		}
	}
	return nil, ""
}

// ResolveAny tries each table in turn with the full candidate list.
func ResolveAny(cands []string, tables ...Table) (*Function, string) {
	for _, t := range tables {
		if fn, sig := Resolve(cands, t); fn != nil {
			return fn, sig
		}
	}
	return nil, ""
}

// Hook returns the override function for the given full-form signature,
// falling back to the zero-argument short form. short is true when the
// short form matched.
func (b *Binding) Hook(full string) (fn *Function, short bool) {
	if fn, ok := b.Functions[full]; ok {
		return fn, false
	}
	if fn, ok := b.Functions[HookShort]; ok {
		return fn, true
	}
	return nil, false
}
