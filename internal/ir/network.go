package ir

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Allocator is the node-allocation contract the renderer consumes. The
// renderer never frees nodes; ownership stays with the allocator.
type Allocator interface {
	NewNode(kind Kind) NodeID
	MakeList(items []NodeID, tag Tag) NodeID
	InternText(s string) NodeID
	InternCompound(words []string) NodeID
	InternInt(v int64) NodeID
	InternDouble(v float64) NodeID
	// Named returns the node of the given kind and name, creating it on
	// first use.
	Named(kind Kind, name string) NodeID
	// Lookup finds a previously defined constant by name.
	Lookup(name string) (NodeID, bool)
	Node(id NodeID) *Node
	// Empty is the canonical failed-render placeholder.
	Empty() NodeID
	// LastResult is the canonical "last call result" placeholder.
	LastResult() NodeID
}

type namedKey struct {
	kind Kind
	name string
}

// Network is an arena-backed Allocator.
type Network struct {
	nodes     []Node // index 0 reserved for NoNode
	texts     map[string]NodeID
	compounds map[string]NodeID
	ints      map[int64]NodeID
	dbls      map[float64]NodeID
	named     map[namedKey]NodeID
	empty     NodeID
	last      NodeID
}

var _ Allocator = (*Network)(nil)

// NewNetwork creates an empty network with its two canonical placeholders.
func NewNetwork() *Network {
	n := &Network{
		nodes:     make([]Node, 1, 64),
		texts:     make(map[string]NodeID),
		compounds: make(map[string]NodeID),
		ints:      make(map[int64]NodeID),
		dbls:      make(map[float64]NodeID),
		named:     make(map[namedKey]NodeID),
	}
	n.empty = n.NewNode(KindEmpty)
	n.last = n.NewNode(KindLastResult)
	return n
}

// NewNode allocates a fresh node of the given kind.
func (n *Network) NewNode(kind Kind) NodeID {
	value, err := safecast.Conv[uint32](len(n.nodes))
	if err != nil {
		panic(fmt.Errorf("network arena overflow: %w", err))
	}
	n.nodes = append(n.nodes, Node{Kind: kind})
	return NodeID(value)
}

// MakeList groups items into a cluster. The slice is copied.
func (n *Network) MakeList(items []NodeID, tag Tag) NodeID {
	id := n.NewNode(KindCluster)
	node := n.Node(id)
	node.Tag = tag
	node.Items = append([]NodeID(nil), items...)
	return id
}

// InternText returns the text node for s. Literals are NFC-normalised so
// that canonically equal spellings share one node.
func (n *Network) InternText(s string) NodeID {
	s = norm.NFC.String(s)
	if id, ok := n.texts[s]; ok {
		return id
	}
	id := n.NewNode(KindText)
	n.Node(id).Text = s
	n.texts[s] = id
	return id
}

// InternCompound returns one node standing for the multi-word literal.
func (n *Network) InternCompound(words []string) NodeID {
	normed := make([]string, len(words))
	for i, w := range words {
		normed[i] = norm.NFC.String(w)
	}
	key := strings.Join(normed, " ")
	if id, ok := n.compounds[key]; ok {
		return id
	}
	parts := make([]NodeID, len(normed))
	for i, w := range normed {
		parts[i] = n.InternText(w)
	}
	id := n.NewNode(KindCompound)
	node := n.Node(id)
	node.Text = key
	node.Items = parts
	n.compounds[key] = id
	return id
}

func (n *Network) InternInt(v int64) NodeID {
	if id, ok := n.ints[v]; ok {
		return id
	}
	id := n.NewNode(KindInt)
	n.Node(id).Int = v
	n.ints[v] = id
	return id
}

func (n *Network) InternDouble(v float64) NodeID {
	if id, ok := n.dbls[v]; ok {
		return id
	}
	id := n.NewNode(KindDouble)
	n.Node(id).Dbl = v
	n.dbls[v] = id
	return id
}

func (n *Network) Named(kind Kind, name string) NodeID {
	key := namedKey{kind: kind, name: name}
	if id, ok := n.named[key]; ok {
		return id
	}
	id := n.NewNode(kind)
	n.Node(id).Text = name
	n.named[key] = id
	return id
}

// DefineConstant registers a compile-time constant that Lookup can find.
func (n *Network) DefineConstant(name string) NodeID {
	return n.Named(KindConstant, norm.NFC.String(name))
}

func (n *Network) Lookup(name string) (NodeID, bool) {
	id, ok := n.named[namedKey{kind: KindConstant, name: norm.NFC.String(name)}]
	return id, ok
}

// LookupText reports whether s has been interned, without interning it.
func (n *Network) LookupText(s string) (NodeID, bool) {
	id, ok := n.texts[norm.NFC.String(s)]
	return id, ok
}

// Node returns the node pointer or nil for an invalid ID.
func (n *Network) Node(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(n.nodes) {
		return nil
	}
	return &n.nodes[id]
}

func (n *Network) Empty() NodeID      { return n.empty }
func (n *Network) LastResult() NodeID { return n.last }

// Len reports the number of allocated nodes.
func (n *Network) Len() int { return len(n.nodes) - 1 }
