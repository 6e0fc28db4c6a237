package token

import "synapse/internal/source"

// Kind is the category of a lexical token of the path syntax.
type Kind uint8

const (
	Invalid Kind = iota
	EOF
	Newline

	Ident
	IntLit
	FloatLit
	StringLit

	Hash     // #
	Caret    // ^
	Tilde    // ~
	Dollar   // $
	Dot      // .
	Colon    // :
	Comma    // ,
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }
	ArrowL   // <-
	ArrowR   // ->
	Assign   // =
	PlusEq   // +=
	MinusEq  // -=
	StarEq   // *=
	SlashEq  // /=
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of input",
	Newline:   "newline",
	Ident:     "identifier",
	IntLit:    "integer",
	FloatLit:  "float",
	StringLit: "string",
	Hash:      "'#'",
	Caret:     "'^'",
	Tilde:     "'~'",
	Dollar:    "'$'",
	Dot:       "'.'",
	Colon:     "':'",
	Comma:     "','",
	LParen:    "'('",
	RParen:    "')'",
	LBracket:  "'['",
	RBracket:  "']'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	ArrowL:    "'<-'",
	ArrowR:    "'->'",
	Assign:    "'='",
	PlusEq:    "'+='",
	MinusEq:   "'-='",
	StarEq:    "'*='",
	SlashEq:   "'/='",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// AssignOp maps an assignment token to its operator.
func (k Kind) AssignOp() (Op, bool) {
	switch k {
	case Assign:
		return OpAssign, true
	case PlusEq:
		return OpAddAssign, true
	case MinusEq:
		return OpSubAssign, true
	case StarEq:
		return OpMulAssign, true
	case SlashEq:
		return OpDivAssign, true
	}
	return OpNone, false
}

// PrefixOp maps a binding prefix token to its operator.
func (k Kind) PrefixOp() (Op, bool) {
	switch k {
	case Hash:
		return OpHash, true
	case Caret:
		return OpCaret, true
	case Tilde:
		return OpTilde, true
	}
	return OpNone, false
}
