package bind

import (
	"fmt"

	"fortio.org/safecast"

	"synapse/internal/diag"
	"synapse/internal/source"
	"synapse/internal/token"
)

// Binding is the aggregate root of one binding definition: the root item,
// the flat name registry of every other item, the binding-level functions
// (override hooks live here) and the global operator overloads.
//
// Edges between items are stored as ItemIDs. While a binding is being
// built or decoded they are recorded as names and turned into IDs by
// ResolveAllReferences; the registry is the only place a cycle can exist.
type Binding struct {
	Name       string
	Operator   token.Op
	UseStatics bool
	Register   bool
	Span       source.Span

	Functions Table
	Overloads Table

	items   []Item // index 0 reserved for NoItemID
	byName  map[string]ItemID
	root    ItemID
	hasRoot bool

	pendingEdges []string
}

// New creates an empty binding introduced by op (usually token.OpHash).
// The start state is a bare item until DefineRoot upgrades it.
func New(name string, op token.Op) *Binding {
	b := &Binding{
		Name:      name,
		Operator:  op,
		Functions: make(Table),
		Overloads: make(Table),
		items:     make([]Item, 1, 16),
		byName:    make(map[string]ItemID),
	}
	b.root = b.alloc(newItem(KindBase, "", token.OpWord, source.NoSpan))
	return b
}

func (b *Binding) alloc(it Item) ItemID {
	value, err := safecast.Conv[uint32](len(b.items))
	if err != nil {
		panic(fmt.Errorf("binding item arena overflow: %w", err))
	}
	b.items = append(b.items, it)
	return ItemID(value)
}

// Item returns the item pointer or nil for an invalid ID.
func (b *Binding) Item(id ItemID) *Item {
	if b == nil || !id.IsValid() || int(id) >= len(b.items) {
		return nil
	}
	return &b.items[id]
}

// Root returns the start state of the path grammar.
func (b *Binding) Root() ItemID { return b.root }

// RootItem is a shortcut for b.Item(b.Root()).
func (b *Binding) RootItem() *Item { return b.Item(b.root) }

// HasRoot reports whether the root carries its own definition.
func (b *Binding) HasRoot() bool { return b.hasRoot }

// FindItem looks a name up in the flat registry only; nested structure is
// never traversed.
func (b *Binding) FindItem(name string) (ItemID, bool) {
	id, ok := b.byName[name]
	return id, ok
}

// Named returns the registry items in definition order.
func (b *Binding) Named() []ItemID {
	out := make([]ItemID, 0, len(b.byName))
	for i := 1; i < len(b.items); i++ {
		id := ItemID(i) // #nosec G115 -- bounded by alloc
		if id == b.root {
			continue
		}
		out = append(out, id)
	}
	return out
}

// DefineRoot turns the start state into a bind item with its own tables
// and statics.
func (b *Binding) DefineRoot(span source.Span) ItemID {
	root := b.RootItem()
	if b.hasRoot {
		return b.root
	}
	upgraded := newItem(KindBind, "", token.OpWord, span)
	upgraded.Next = root.Next
	upgraded.pending = root.pending
	b.items[b.root] = upgraded
	b.hasRoot = true
	return b.root
}

// AddItem registers a named item in the flat registry.
func (b *Binding) AddItem(kind Kind, name string, op token.Op, span source.Span, sink *diag.Sink) (ItemID, error) {
	if name == "" {
		return NoItemID, sink.Error(diag.BindDuplicateItem, span, "binding item needs a name")
	}
	if prev, ok := b.byName[name]; ok {
		return prev, sink.ErrorWithNote(diag.BindDuplicateItem, span,
			fmt.Sprintf("binding item %q is already defined in %q", name, b.Name),
			b.items[prev].Span, "previous definition")
	}
	id := b.alloc(newItem(kind, name, op, span))
	b.byName[name] = id
	return id, nil
}

// AddRef records that from may be followed by the item called name. The
// edge's operator is the referenced item's own Operator and is only known
// after ResolveAllReferences.
func (b *Binding) AddRef(from ItemID, name string) {
	if from == b.root {
		b.pendingEdges = append(b.pendingEdges, name)
		return
	}
	if it := b.Item(from); it != nil {
		it.pending = append(it.pending, name)
	}
}

// AddStatic redirects the literal name to the bind item called target.
func (b *Binding) AddStatic(from ItemID, literal, target string, span source.Span, sink *diag.Sink) error {
	it := b.Item(from)
	if it == nil {
		return sink.Errorf(diag.BindDuplicateDefinition, span, "unknown item for static %q", literal)
	}
	if !it.HasStatics() {
		return sink.Errorf(diag.BindDuplicateDefinition, span, "item %q cannot hold statics", it.displayName())
	}
	for _, ps := range it.pendingStatics {
		if ps.literal == literal {
			return sink.Errorf(diag.BindDuplicateDefinition, span, "static %q is already defined", literal)
		}
	}
	if _, ok := it.Statics[literal]; ok {
		return sink.Errorf(diag.BindDuplicateDefinition, span, "static %q is already defined", literal)
	}
	it.pendingStatics = append(it.pendingStatics, staticRef{literal: literal, target: target, span: span})
	return nil
}

// DefineGetter adds a getter; a second definition for the same signature
// is reported here rather than at use.
func (b *Binding) DefineGetter(id ItemID, sig string, fn *Function, sink *diag.Sink) error {
	it := b.Item(id)
	if !it.HasTables() {
		return b.noTable(it, "getters", fn, sink)
	}
	return define(it.Getter, "getter", sig, fn, sink)
}

func (b *Binding) DefineSetter(id ItemID, sig string, fn *Function, sink *diag.Sink) error {
	it := b.Item(id)
	if !it.HasTables() {
		return b.noTable(it, "setters", fn, sink)
	}
	return define(it.Setter, "setter", sig, fn, sink)
}

func (b *Binding) DefineOverload(id ItemID, sig string, fn *Function, sink *diag.Sink) error {
	it := b.Item(id)
	if !it.HasTables() {
		return b.noTable(it, "operator overloads", fn, sink)
	}
	return define(it.Overloads, "operator overload", sig, fn, sink)
}

func (b *Binding) DefineFunction(id ItemID, sig string, fn *Function, sink *diag.Sink) error {
	it := b.Item(id)
	if !it.HasFunctions() {
		return b.noTable(it, "functions", fn, sink)
	}
	return define(it.Functions, "function", sig, fn, sink)
}

// DefineHook adds a binding-level function such as an override hook.
func (b *Binding) DefineHook(sig string, fn *Function, sink *diag.Sink) error {
	return define(b.Functions, "function", sig, fn, sink)
}

// DefineGlobalOverload adds a binding-wide operator overload.
func (b *Binding) DefineGlobalOverload(sig string, fn *Function, sink *diag.Sink) error {
	return define(b.Overloads, "operator overload", sig, fn, sink)
}

func (b *Binding) noTable(it *Item, what string, fn *Function, sink *diag.Sink) error {
	var sp source.Span
	if fn != nil {
		sp = fn.Span
	}
	if it == nil {
		return sink.Errorf(diag.BindDuplicateDefinition, sp, "unknown item for %s", what)
	}
	return sink.Errorf(diag.BindDuplicateDefinition, sp, "%s item %q cannot hold %s", it.Kind, it.displayName(), what)
}

func define(t Table, what, sig string, fn *Function, sink *diag.Sink) error {
	if fn == nil {
		return sink.Errorf(diag.BindBadSignature, source.NoSpan, "%s %q has no definition", what, sig)
	}
	if sig == "" {
		return sink.Errorf(diag.BindBadSignature, fn.Span, "%s without signature", what)
	}
	if prev, ok := t[sig]; ok {
		return sink.ErrorWithNote(diag.BindDuplicateDefinition, fn.Span,
			fmt.Sprintf("duplicate %s for signature %q", what, sig),
			prev.Span, "previous definition")
	}
	t[sig] = fn
	return nil
}

func (it *Item) displayName() string {
	if it.Name == "" {
		return "<root>"
	}
	return it.Name
}
