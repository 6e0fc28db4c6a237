package token

import "fmt"

// Op is a path or binding operator. The numeric values are part of the
// persisted binding format and must not be reordered.
type Op int32

const (
	OpNone Op = iota
	// OpWord marks a static entry point: an item reached by a literal name
	// rather than by an access operator.
	OpWord
	OpDot
	OpArrowLeft
	OpArrowRight
	// OpOptionStart is the index operator '['.
	OpOptionStart
	// OpCall is the ':' that introduces a call-style segment.
	OpCall
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNotEq
	// Binding prefixes.
	OpHash
	OpCaret
	OpTilde

	opCount
)

var opSymbols = [...]string{
	OpNone:        "",
	OpWord:        "word",
	OpDot:         ".",
	OpArrowLeft:   "<-",
	OpArrowRight:  "->",
	OpOptionStart: "[",
	OpCall:        ":",
	OpAssign:      "=",
	OpAddAssign:   "+=",
	OpSubAssign:   "-=",
	OpMulAssign:   "*=",
	OpDivAssign:   "/=",
	OpAdd:         "+",
	OpSub:         "-",
	OpMul:         "*",
	OpDiv:         "/",
	OpEq:          "==",
	OpNotEq:       "!=",
	OpHash:        "#",
	OpCaret:       "^",
	OpTilde:       "~",
}

var opNames = [...]string{
	OpNone:        "none",
	OpWord:        "word",
	OpDot:         "dot",
	OpArrowLeft:   "arrow-left",
	OpArrowRight:  "arrow-right",
	OpOptionStart: "option-start",
	OpCall:        "call",
	OpAssign:      "assign",
	OpAddAssign:   "add-assign",
	OpSubAssign:   "sub-assign",
	OpMulAssign:   "mul-assign",
	OpDivAssign:   "div-assign",
	OpAdd:         "add",
	OpSub:         "sub",
	OpMul:         "mul",
	OpDiv:         "div",
	OpEq:          "eq",
	OpNotEq:       "not-eq",
	OpHash:        "hash",
	OpCaret:       "caret",
	OpTilde:       "tilde",
}

// Valid reports whether op is a known operator other than OpNone.
func (op Op) Valid() bool { return op > OpNone && op < opCount }

// Symbol is the source spelling, also used as the first signature segment.
func (op Op) Symbol() string {
	if op >= 0 && op < opCount {
		return opSymbols[op]
	}
	return ""
}

// String returns the manifest name of the operator.
func (op Op) String() string {
	if op >= 0 && op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int32(op))
}

// IsAssign reports whether op is '=' or a compound assignment.
func (op Op) IsAssign() bool {
	return op >= OpAssign && op <= OpDivAssign
}

// IsBindingPrefix reports whether op introduces a binding path.
func (op Op) IsBindingPrefix() bool {
	return op == OpHash || op == OpCaret || op == OpTilde
}

// ParseOp accepts either the manifest name ("dot") or the symbol (".").
func ParseOp(s string) (Op, error) {
	for i := OpNone + 1; i < opCount; i++ {
		if opNames[i] == s || opSymbols[i] == s {
			return i, nil
		}
	}
	return OpNone, fmt.Errorf("unknown operator %q", s)
}
