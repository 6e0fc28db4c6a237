package ir

// NodeID identifies a node in a Network.
type NodeID uint32

// NoNode marks the absence of a node.
const NoNode NodeID = 0

// IsValid reports whether the ID refers to an allocated node.
func (id NodeID) IsValid() bool { return id != NoNode }

// Kind enumerates node kinds of the graph IR.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindEmpty is the placeholder assigned to a path that failed to render.
	KindEmpty
	// KindLastResult stands for the value returned by the most recent call.
	KindLastResult
	KindText
	KindCompound
	KindInt
	KindDouble
	// KindFunction is a named callee.
	KindFunction
	// KindVariable is a named runtime variable.
	KindVariable
	// KindConstant is a named compile-time constant (thesaurus or asset entry).
	KindConstant
	// KindResult is a call used as a value.
	KindResult
	// KindCall is a call statement.
	KindCall
	KindPush
	KindPop
	KindReturn
	// KindEval evaluates a value for its side effects.
	KindEval
	// KindCluster is an ordered list of nodes; see Tag.
	KindCluster
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindEmpty:      "empty",
	KindLastResult: "last-result",
	KindText:       "text",
	KindCompound:   "compound",
	KindInt:        "int",
	KindDouble:     "double",
	KindFunction:   "function",
	KindVariable:   "variable",
	KindConstant:   "constant",
	KindResult:     "result",
	KindCall:       "call",
	KindPush:       "push",
	KindPop:        "pop",
	KindReturn:     "return",
	KindEval:       "eval",
	KindCluster:    "cluster",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Tag is the meaning of a cluster.
type Tag uint8

const (
	TagNone Tag = iota
	// TagArguments holds call arguments.
	TagArguments
	// TagCallback is a statement list handed to an override function.
	TagCallback
)

var tagNames = [...]string{
	TagNone:      "none",
	TagArguments: "args",
	TagCallback:  "callback",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// Node is a single typed node of the graph.
type Node struct {
	Kind Kind
	Tag  Tag
	Text string
	Int  int64
	Dbl  float64
	// Target is the callee of Result/Call nodes and the operand of
	// Push/Pop/Return.
	Target NodeID
	// Args is the TagArguments cluster of Result/Call nodes.
	Args NodeID
	// Items are the children of a cluster.
	Items []NodeID
}

// IsStatement reports whether the node may appear in a statement list.
func (n *Node) IsStatement() bool {
	switch n.Kind {
	case KindCall, KindPush, KindPop, KindReturn, KindEval:
		return true
	}
	return false
}
