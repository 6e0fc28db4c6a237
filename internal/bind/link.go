package bind

import (
	"fmt"

	"synapse/internal/diag"
)

// ResolveAllReferences turns every pending reference name into an edge.
// It must run once after building or decoding a binding. Consumed names are
// cleared, so calling it again is a no-op.
//
// With a lenient sink every failure is reported and linking continues; a
// strict sink stops at the first failure and returns the *diag.Fault.
func (b *Binding) ResolveAllReferences(sink *diag.Sink) error {
	root := b.RootItem()
	pending := b.pendingEdges
	b.pendingEdges = nil
	for _, name := range pending {
		if err := b.link(root, name, sink); err != nil {
			return err
		}
	}
	for i := 1; i < len(b.items); i++ {
		it := &b.items[i]
		names := it.pending
		it.pending = nil
		for _, name := range names {
			if err := b.link(it, name, sink); err != nil {
				return err
			}
		}
		statics := it.pendingStatics
		it.pendingStatics = nil
		for _, ps := range statics {
			if err := b.linkStatic(it, ps, sink); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Binding) link(from *Item, name string, sink *diag.Sink) error {
	id, ok := b.FindItem(name)
	if !ok {
		return sink.Errorf(diag.BindUnresolvedReference, from.Span,
			"unresolved reference %q in %q of binding %q", name, from.displayName(), b.Name)
	}
	target := b.Item(id)
	if existing, dup := from.Next[target.Operator]; dup {
		if existing == id {
			return nil
		}
		return sink.ErrorWithNote(diag.BindDuplicateSection, from.Span,
			fmt.Sprintf("%q already has a sub-section for operator %s", from.displayName(), target.Operator.Symbol()),
			b.Item(existing).Span, fmt.Sprintf("%q is registered for that operator", b.Item(existing).Name))
	}
	from.Next[target.Operator] = id
	return nil
}

func (b *Binding) linkStatic(from *Item, ps staticRef, sink *diag.Sink) error {
	id, ok := b.FindItem(ps.target)
	if !ok {
		return sink.Errorf(diag.BindUnresolvedReference, ps.span,
			"unresolved static target %q for %q in binding %q", ps.target, ps.literal, b.Name)
	}
	if !b.Item(id).HasStatics() {
		return sink.Errorf(diag.BindUnresolvedReference, ps.span,
			"static target %q must be a bind item, got %s", ps.target, b.Item(id).Kind)
	}
	from.Statics[ps.literal] = id
	return nil
}

// Linked reports whether no references are waiting to be resolved.
func (b *Binding) Linked() bool {
	if len(b.pendingEdges) > 0 {
		return false
	}
	for i := 1; i < len(b.items); i++ {
		if len(b.items[i].pending) > 0 || len(b.items[i].pendingStatics) > 0 {
			return false
		}
	}
	return true
}
