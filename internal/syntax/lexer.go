package syntax

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"synapse/internal/diag"
	"synapse/internal/source"
	"synapse/internal/token"
)

// Lexer splits a script into tokens. Newlines are significant; spaces,
// tabs and "//" comments are skipped.
type Lexer struct {
	file   *source.File
	cursor cursor
	rep    diag.Reporter
	look   *token.Token
}

// NewLexer creates a lexer over f. rep may be nil.
func NewLexer(f *source.File, rep diag.Reporter) *Lexer {
	return &Lexer{file: f, cursor: newCursor(f), rep: rep}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		t := lx.scan()
		lx.look = &t
	}
	return *lx.look
}

// Next consumes the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	t := lx.Peek()
	lx.look = nil
	return t
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()
	start := lx.cursor.off
	if lx.cursor.eof() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.spanFrom(start)}
	}
	ch := lx.cursor.peek()
	switch {
	case ch == '\n':
		lx.cursor.bump()
		return lx.emit(token.Newline, start)
	case ch == '"':
		return lx.scanString()
	case isDigit(ch), ch == '-' && isDigit(lx.cursor.peek2()):
		return lx.scanNumber()
	case ch == '_' || ch >= utf8.RuneSelf || isLetter(ch):
		return lx.scanIdent()
	}
	return lx.scanPunct()
}

func (lx *Lexer) emit(k token.Kind, start uint32) token.Token {
	sp := lx.cursor.spanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) skipTrivia() {
	for !lx.cursor.eof() {
		switch b := lx.cursor.peek(); {
		case b == ' ' || b == '\t':
			lx.cursor.bump()
		case b == '/' && lx.cursor.peek2() == '/':
			for !lx.cursor.eof() && lx.cursor.peek() != '\n' {
				lx.cursor.bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.off
	for !lx.cursor.eof() {
		r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.off:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		n, err := safecast.Conv[uint32](sz)
		if err != nil {
			panic(fmt.Errorf("rune size overflow: %w", err))
		}
		lx.cursor.off += n
	}
	if lx.cursor.off == start {
		// не буква: одиночный неизвестный символ
		_, sz := utf8.DecodeRune(lx.file.Content[start:])
		lx.cursor.off += uint32(sz) //nolint:gosec // sz <= utf8.UTFMax
		t := lx.emit(token.Invalid, start)
		lx.report(diag.SynUnexpectedToken, t.Span, fmt.Sprintf("unexpected character %q", t.Text))
		return t
	}
	return lx.emit(token.Ident, start)
}

// scanNumber: -?digits(.digits)?
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.off
	lx.cursor.eat('-')
	for isDigit(lx.cursor.peek()) {
		lx.cursor.bump()
	}
	kind := token.IntLit
	if lx.cursor.peek() == '.' && isDigit(lx.cursor.peek2()) {
		kind = token.FloatLit
		lx.cursor.bump()
		for isDigit(lx.cursor.peek()) {
			lx.cursor.bump()
		}
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.off
	lx.cursor.bump() // opening '"'
	for !lx.cursor.eof() {
		switch lx.cursor.peek() {
		case '"':
			lx.cursor.bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.bump()
			lx.cursor.bump()
		case '\n':
			t := lx.emit(token.Invalid, start)
			lx.report(diag.SynUnclosed, t.Span, "newline in string literal")
			return t
		default:
			lx.cursor.bump()
		}
	}
	t := lx.emit(token.Invalid, start)
	lx.report(diag.SynUnclosed, t.Span, "unterminated string literal")
	return t
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.off
	pair := func(second byte, k token.Kind) token.Token {
		lx.cursor.bump()
		if lx.cursor.eat(second) {
			return lx.emit(k, start)
		}
		t := lx.emit(token.Invalid, start)
		lx.report(diag.SynUnexpectedToken, t.Span, fmt.Sprintf("unexpected character %q", t.Text))
		return t
	}
	switch lx.cursor.peek() {
	case '-':
		if lx.cursor.peek2() == '>' {
			lx.cursor.off += 2
			return lx.emit(token.ArrowR, start)
		}
		return pair('=', token.MinusEq)
	case '<':
		return pair('-', token.ArrowL)
	case '+':
		return pair('=', token.PlusEq)
	case '*':
		return pair('=', token.StarEq)
	case '/':
		return pair('=', token.SlashEq)
	}
	kind := token.Invalid
	switch lx.cursor.bump() {
	case '#':
		kind = token.Hash
	case '^':
		kind = token.Caret
	case '~':
		kind = token.Tilde
	case '$':
		kind = token.Dollar
	case '.':
		kind = token.Dot
	case ':':
		kind = token.Colon
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '=':
		kind = token.Assign
	}
	t := lx.emit(kind, start)
	if kind == token.Invalid {
		lx.report(diag.SynUnexpectedToken, t.Span, fmt.Sprintf("unexpected character %q", t.Text))
	}
	return t
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.rep != nil {
		diag.ReportError(lx.rep, code, sp, msg).Emit()
	}
}

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
