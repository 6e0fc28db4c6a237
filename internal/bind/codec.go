package bind

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"synapse/internal/diag"
	"synapse/internal/dtype"
	"synapse/internal/source"
	"synapse/internal/token"
)

// Encode writes the binding in the persisted layout:
//
//	[operator:int32][use_statics:bool][has_root:bool][root?]
//	[item_count:int32]{[type_tag:string][item_payload]}*
//	[edge_count:int32]{[name:string]}*
//	[function_count:int32]{[signature:string][function_payload]}*
//	[operator_overload_count:int32]{[signature:string][function_payload]}*
//
// Items refer to each other by name only, so cycles never recurse. Tables
// are written in sorted key order so equal bindings encode to equal bytes.
func Encode(w io.Writer, b *Binding) error {
	enc := msgpack.NewEncoder(w)
	return b.encode(enc)
}

func (b *Binding) encode(enc *msgpack.Encoder) error {
	if err := enc.EncodeInt32(int32(b.Operator)); err != nil {
		return err
	}
	if err := enc.EncodeBool(b.UseStatics); err != nil {
		return err
	}
	if err := enc.EncodeBool(b.hasRoot); err != nil {
		return err
	}
	if b.hasRoot {
		// first-level edges are written separately below
		if err := b.encodeItem(enc, b.RootItem(), false); err != nil {
			return err
		}
	}

	named := b.Named()
	if err := encodeCount(enc, len(named)); err != nil {
		return err
	}
	for _, id := range named {
		it := b.Item(id)
		if err := enc.EncodeString(it.Kind.Tag()); err != nil {
			return err
		}
		if err := b.encodeItem(enc, it, true); err != nil {
			return err
		}
	}

	if err := encodeNames(enc, b.refNames(b.RootItem(), b.pendingEdges)); err != nil {
		return err
	}
	if err := encodeTable(enc, b.Functions); err != nil {
		return err
	}
	return encodeTable(enc, b.Overloads)
}

func (b *Binding) encodeItem(enc *msgpack.Encoder, it *Item, withEdges bool) error {
	if err := enc.EncodeString(it.Name); err != nil {
		return err
	}
	if err := enc.EncodeInt32(int32(it.Operator)); err != nil {
		return err
	}
	var refs []string
	if withEdges {
		refs = b.refNames(it, it.pending)
	}
	if err := encodeNames(enc, refs); err != nil {
		return err
	}
	switch it.Kind {
	case KindIndex, KindBind:
		for _, t := range []Table{it.Getter, it.Setter, it.Overloads} {
			if err := encodeTable(enc, t); err != nil {
				return err
			}
		}
		if it.Kind == KindBind {
			return b.encodeStatics(enc, it)
		}
	case KindFunctions:
		return encodeTable(enc, it.Functions)
	}
	return nil
}

// refNames lists linked and pending references in canonical order: by the
// operator of the target, then by name.
func (b *Binding) refNames(it *Item, pending []string) []string {
	type ref struct {
		op   token.Op
		name string
	}
	refs := make([]ref, 0, len(it.Next)+len(pending))
	for op, id := range it.Next {
		refs = append(refs, ref{op: op, name: b.Item(id).Name})
	}
	for _, name := range pending {
		op := token.OpNone
		if id, ok := b.FindItem(name); ok {
			op = b.Item(id).Operator
		}
		refs = append(refs, ref{op: op, name: name})
	}
	slices.SortStableFunc(refs, func(a, c ref) int {
		if a.op != c.op {
			return cmp.Compare(a.op, c.op)
		}
		return cmp.Compare(a.name, c.name)
	})
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.name
	}
	return out
}

func (b *Binding) encodeStatics(enc *msgpack.Encoder, it *Item) error {
	type pair struct{ literal, target string }
	pairs := make([]pair, 0, len(it.Statics)+len(it.pendingStatics))
	for lit, id := range it.Statics {
		pairs = append(pairs, pair{lit, b.Item(id).Name})
	}
	for _, ps := range it.pendingStatics {
		pairs = append(pairs, pair{ps.literal, ps.target})
	}
	slices.SortFunc(pairs, func(a, c pair) int { return cmp.Compare(a.literal, c.literal) })
	if err := encodeCount(enc, len(pairs)); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := enc.EncodeString(p.literal); err != nil {
			return err
		}
		if err := enc.EncodeString(p.target); err != nil {
			return err
		}
	}
	return nil
}

func encodeCount(enc *msgpack.Encoder, n int) error {
	v, err := safecast.Conv[int32](n)
	if err != nil {
		return fmt.Errorf("count overflow: %w", err)
	}
	return enc.EncodeInt32(v)
}

func encodeNames(enc *msgpack.Encoder, names []string) error {
	if err := encodeCount(enc, len(names)); err != nil {
		return err
	}
	for _, n := range names {
		if err := enc.EncodeString(n); err != nil {
			return err
		}
	}
	return nil
}

func encodeTable(enc *msgpack.Encoder, t Table) error {
	if err := encodeCount(enc, len(t)); err != nil {
		return err
	}
	for _, sig := range t.Keys() {
		if err := enc.EncodeString(sig); err != nil {
			return err
		}
		if err := encodeFunction(enc, t[sig]); err != nil {
			return err
		}
	}
	return nil
}

func encodeFunction(enc *msgpack.Encoder, fn *Function) error {
	if err := enc.EncodeString(fn.Name); err != nil {
		return err
	}
	if err := encodeCount(enc, len(fn.Params)); err != nil {
		return err
	}
	for _, p := range fn.Params {
		if err := enc.EncodeString(p.String()); err != nil {
			return err
		}
	}
	return enc.EncodeString(fn.Result.String())
}

// Decode reads a binding written by Encode. All items are rebuilt and
// registered first, then edges are restored from names and the binding is
// linked. Linking runs strict: an unresolved name is a *diag.Fault because
// there is no source position to report it against.
func Decode(r io.Reader, name string) (*Binding, error) {
	dec := msgpack.NewDecoder(r)
	return decodeBinding(dec, name)
}

func decodeBinding(dec *msgpack.Decoder, name string) (*Binding, error) {
	op, err := dec.DecodeInt32()
	if err != nil {
		return nil, malformed("operator", err)
	}
	b := New(name, token.Op(op))
	if b.UseStatics, err = dec.DecodeBool(); err != nil {
		return nil, malformed("use_statics", err)
	}
	hasRoot, err := dec.DecodeBool()
	if err != nil {
		return nil, malformed("has_root", err)
	}
	strict := diag.StrictSink()
	if hasRoot {
		b.DefineRoot(source.NoSpan)
		if _, err := b.decodeItem(dec, b.root, false); err != nil {
			return nil, err
		}
	}

	count, err := decodeCount(dec, "item_count")
	if err != nil {
		return nil, err
	}
	for range count {
		tag, err := dec.DecodeString()
		if err != nil {
			return nil, malformed("type_tag", err)
		}
		kind, ok := ParseKind(tag)
		if !ok {
			return nil, &diag.Fault{Code: diag.IOMalformedInput, Message: fmt.Sprintf("unknown item type tag %q", tag)}
		}
		// placeholder name, replaced once the payload is read
		id := b.alloc(newItem(kind, "", token.OpNone, source.NoSpan))
		itemName, err := b.decodeItem(dec, id, true)
		if err != nil {
			return nil, err
		}
		if _, dup := b.byName[itemName]; dup || itemName == "" {
			return nil, &diag.Fault{Code: diag.IOMalformedInput, Message: fmt.Sprintf("invalid or duplicate item name %q", itemName)}
		}
		b.byName[itemName] = id
	}

	edges, err := decodeNames(dec, "edge")
	if err != nil {
		return nil, err
	}
	b.pendingEdges = edges
	if err := decodeTable(dec, b.Functions, strict); err != nil {
		return nil, err
	}
	if err := decodeTable(dec, b.Overloads, strict); err != nil {
		return nil, err
	}
	if err := b.ResolveAllReferences(strict); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Binding) decodeItem(dec *msgpack.Decoder, id ItemID, withEdges bool) (string, error) {
	name, err := dec.DecodeString()
	if err != nil {
		return "", malformed("item name", err)
	}
	op, err := dec.DecodeInt32()
	if err != nil {
		return "", malformed("item operator", err)
	}
	refs, err := decodeNames(dec, "reference")
	if err != nil {
		return "", err
	}
	it := b.Item(id)
	it.Name = name
	if withEdges {
		it.Operator = token.Op(op)
	}
	it.pending = append(it.pending, refs...)

	strict := diag.StrictSink()
	switch it.Kind {
	case KindIndex, KindBind:
		for _, t := range []Table{it.Getter, it.Setter, it.Overloads} {
			if err := decodeTable(dec, t, strict); err != nil {
				return "", err
			}
		}
		if it.Kind == KindBind {
			n, err := decodeCount(dec, "static_count")
			if err != nil {
				return "", err
			}
			for range n {
				lit, err := dec.DecodeString()
				if err != nil {
					return "", malformed("static literal", err)
				}
				target, err := dec.DecodeString()
				if err != nil {
					return "", malformed("static target", err)
				}
				if err := b.AddStatic(id, lit, target, source.NoSpan, strict); err != nil {
					return "", err
				}
			}
		}
	case KindFunctions:
		if err := decodeTable(dec, it.Functions, strict); err != nil {
			return "", err
		}
	}
	return name, nil
}

func decodeCount(dec *msgpack.Decoder, what string) (int, error) {
	n, err := dec.DecodeInt32()
	if err != nil {
		return 0, malformed(what, err)
	}
	if n < 0 {
		return 0, &diag.Fault{Code: diag.IOMalformedInput, Message: fmt.Sprintf("negative %s %d", what, n)}
	}
	return int(n), nil
}

func decodeNames(dec *msgpack.Decoder, what string) ([]string, error) {
	n, err := decodeCount(dec, what+" count")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, min(n, 64))
	for range n {
		s, err := dec.DecodeString()
		if err != nil {
			return nil, malformed(what, err)
		}
		names = append(names, s)
	}
	return names, nil
}

func decodeTable(dec *msgpack.Decoder, t Table, sink *diag.Sink) error {
	n, err := decodeCount(dec, "table size")
	if err != nil {
		return err
	}
	for range n {
		sig, err := dec.DecodeString()
		if err != nil {
			return malformed("signature", err)
		}
		fn, err := decodeFunction(dec)
		if err != nil {
			return err
		}
		if err := define(t, "function", sig, fn, sink); err != nil {
			return err
		}
	}
	return nil
}

func decodeFunction(dec *msgpack.Decoder) (*Function, error) {
	name, err := dec.DecodeString()
	if err != nil {
		return nil, malformed("function name", err)
	}
	n, err := decodeCount(dec, "param count")
	if err != nil {
		return nil, err
	}
	fn := &Function{Name: name}
	if n > 0 {
		fn.Params = make([]dtype.Type, 0, min(n, 16))
	}
	for range n {
		p, err := decodeType(dec)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, p)
	}
	if fn.Result, err = decodeType(dec); err != nil {
		return nil, err
	}
	return fn, nil
}

func decodeType(dec *msgpack.Decoder) (dtype.Type, error) {
	s, err := dec.DecodeString()
	if err != nil {
		return dtype.None, malformed("type", err)
	}
	if s == "" {
		return dtype.None, nil
	}
	t, err := dtype.Parse(s)
	if err != nil {
		return dtype.None, &diag.Fault{Code: diag.IOMalformedInput, Message: err.Error()}
	}
	return t, nil
}

func malformed(what string, err error) error {
	return fmt.Errorf("%w: %w", &diag.Fault{Code: diag.IOMalformedInput, Message: "cannot read " + what}, err)
}
