package bind

import (
	"synapse/internal/source"
	"synapse/internal/token"
)

// ItemID identifies a binding item inside its Binding's arena.
type ItemID uint32

// NoItemID marks the absence of an item.
const NoItemID ItemID = 0

// IsValid reports whether the ID refers to an allocated item.
func (id ItemID) IsValid() bool { return id != NoItemID }

// Kind is the variant of a binding item.
type Kind uint8

const (
	// KindBase only carries edges.
	KindBase Kind = iota
	// KindIndex adds getter, setter and operator-overload tables.
	KindIndex
	// KindBind is an index item that can also redirect literal names to
	// static sub-items.
	KindBind
	// KindFunctions holds call-style functions.
	KindFunctions
)

var kindTags = [...]string{
	KindBase:      "base",
	KindIndex:     "index",
	KindBind:      "bind",
	KindFunctions: "functions",
}

// Tag is the persisted type tag of the kind.
func (k Kind) Tag() string {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return "unknown"
}

func (k Kind) String() string { return k.Tag() }

// ParseKind maps a type tag back to its kind.
func ParseKind(tag string) (Kind, bool) {
	for i, t := range kindTags {
		if t == tag {
			return Kind(i), true
		}
	}
	return KindBase, false
}

type staticRef struct {
	literal string
	target  string
	span    source.Span
}

// Item is one state of the path grammar. Fields that do not apply to the
// item's Kind stay nil.
type Item struct {
	Kind     Kind
	Name     string
	Operator token.Op
	Span     source.Span

	// Next are the outgoing edges keyed by operator.
	Next map[token.Op]ItemID

	Getter    Table
	Setter    Table
	Overloads Table

	Statics map[string]ItemID

	Functions Table

	pending        []string
	pendingStatics []staticRef
}

func newItem(kind Kind, name string, op token.Op, span source.Span) Item {
	it := Item{
		Kind:     kind,
		Name:     name,
		Operator: op,
		Span:     span,
		Next:     make(map[token.Op]ItemID),
	}
	switch kind {
	case KindIndex, KindBind:
		it.Getter = make(Table)
		it.Setter = make(Table)
		it.Overloads = make(Table)
		if kind == KindBind {
			it.Statics = make(map[string]ItemID)
		}
	case KindFunctions:
		it.Functions = make(Table)
	}
	return it
}

// HasTables reports whether the item has getter/setter/overload tables.
func (it *Item) HasTables() bool {
	return it != nil && (it.Kind == KindIndex || it.Kind == KindBind)
}

// HasStatics reports whether the item can redirect literal names.
func (it *Item) HasStatics() bool { return it != nil && it.Kind == KindBind }

// HasFunctions reports whether the item is a function section.
func (it *Item) HasFunctions() bool { return it != nil && it.Kind == KindFunctions }

// NextItem is the grammar check: the item that a step with op leads to.
func (it *Item) NextItem(op token.Op) (ItemID, bool) {
	if it == nil {
		return NoItemID, false
	}
	id, ok := it.Next[op]
	return id, ok
}

// Static returns the static sub-item registered for the literal name.
func (it *Item) Static(name string) (ItemID, bool) {
	if !it.HasStatics() || name == "" {
		return NoItemID, false
	}
	id, ok := it.Statics[name]
	return id, ok
}
