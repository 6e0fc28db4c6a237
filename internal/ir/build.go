package ir

// Result allocates a call whose value is used as an expression.
func Result(a Allocator, fn NodeID, args []NodeID) NodeID {
	return call(a, KindResult, fn, args)
}

// Call allocates a call statement.
func Call(a Allocator, fn NodeID, args []NodeID) NodeID {
	return call(a, KindCall, fn, args)
}

func call(a Allocator, kind Kind, fn NodeID, args []NodeID) NodeID {
	list := a.MakeList(args, TagArguments)
	id := a.NewNode(kind)
	n := a.Node(id)
	n.Target = fn
	n.Args = list
	return id
}

// Push moves v onto the inter-thread value stack.
func Push(a Allocator, v NodeID) NodeID { return unary(a, KindPush, v) }

// Pop restores v from the inter-thread value stack.
func Pop(a Allocator, v NodeID) NodeID { return unary(a, KindPop, v) }

// Return makes v the result of the enclosing code cluster.
func Return(a Allocator, v NodeID) NodeID { return unary(a, KindReturn, v) }

// Eval evaluates v as a statement.
func Eval(a Allocator, v NodeID) NodeID { return unary(a, KindEval, v) }

func unary(a Allocator, kind Kind, v NodeID) NodeID {
	id := a.NewNode(kind)
	a.Node(id).Target = v
	return id
}

// ArgsOf returns the argument nodes of a Result or Call node.
func ArgsOf(a Allocator, id NodeID) []NodeID {
	n := a.Node(id)
	if n == nil || (n.Kind != KindResult && n.Kind != KindCall) {
		return nil
	}
	if list := a.Node(n.Args); list != nil {
		return list.Items
	}
	return nil
}
