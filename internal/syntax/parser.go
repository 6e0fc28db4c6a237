package syntax

import (
	"fmt"
	"strconv"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/path"
	"synapse/internal/source"
	"synapse/internal/token"
)

// Resolver finds the binding named by a path prefix. *bind.Library
// implements it.
type Resolver interface {
	Get(name string) (*bind.Binding, bool)
}

// Parser хранит состояние разбора одного скрипта
type Parser struct {
	lx   *Lexer
	rep  diag.Reporter
	lib  Resolver
	last source.Span // span последнего съеденного токена
}

// Parse reads every statement of f. A line with an error is reported to
// rep and dropped; the remaining lines are still parsed.
func Parse(f *source.File, lib Resolver, rep diag.Reporter) []*path.Statement {
	p := &Parser{lx: NewLexer(f, rep), rep: rep, lib: lib}
	var out []*path.Statement
	for !p.at(token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		st, ok := p.parseStatement()
		if ok && p.endOfLine() {
			out = append(out, st)
			continue
		}
		p.resync()
	}
	return out
}

func (p *Parser) at(k token.Kind) bool { return p.lx.Peek().Kind == k }

func (p *Parser) next() token.Token {
	t := p.lx.Next()
	p.last = t.Span
	return t
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	t := p.lx.Peek()
	if t.Kind != k {
		p.errorf(code, t.Span, "expected %s, found %s", what, describe(t))
		return t, false
	}
	return p.next(), true
}

func (p *Parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	if p.rep == nil {
		return
	}
	diag.ReportError(p.rep, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (p *Parser) endOfLine() bool {
	if p.at(token.EOF) || p.eat(token.Newline) {
		return true
	}
	t := p.lx.Peek()
	p.errorf(diag.SynUnexpectedToken, t.Span, "expected end of line, found %s", describe(t))
	return false
}

// resync пропускает остаток строки
func (p *Parser) resync() {
	for !p.at(token.EOF) {
		if p.next().Kind == token.Newline {
			return
		}
	}
}

func (p *Parser) parseStatement() (*path.Statement, bool) {
	t := p.lx.Peek()
	if _, ok := t.Kind.PrefixOp(); !ok {
		p.errorf(diag.SynUnexpectedToken, t.Span, "expected a path, found %s", describe(t))
		return nil, false
	}
	n, ok := p.parsePath()
	if !ok {
		return nil, false
	}
	op, isAssign := p.lx.Peek().Kind.AssignOp()
	if !isAssign {
		return &path.Statement{Target: n, Span: n.Span()}, true
	}
	p.next()
	val, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return &path.Statement{Target: n, Op: op, Value: val, Span: n.Span().Cover(val.Span())}, true
}

func (p *Parser) parsePath() (*path.Node, bool) {
	prefix := p.next()
	op, _ := prefix.Kind.PrefixOp()
	name, ok := p.expect(token.Ident, diag.SynExpectIdent, "binding name")
	if !ok {
		return nil, false
	}
	head := prefix.Span.Cover(name.Span)
	b, found := p.lib.Get(name.Text)
	if !found || b.Operator != op {
		p.errorf(diag.SynUnknownBinding, head, "unknown binding %s%s", op.Symbol(), name.Text)
		return nil, false
	}

	var steps []path.Item
	for isStepStart(p.lx.Peek().Kind) {
		st, ok := p.parseStep()
		if !ok {
			return nil, false
		}
		steps = append(steps, st)
	}
	if len(steps) == 0 {
		p.errorf(diag.SynExpectIdent, head, "path %s%s needs at least one step", op.Symbol(), name.Text)
		return nil, false
	}
	return path.NewNode(b, head.Cover(p.last), steps[0], steps[1:]...), true
}

func isStepStart(k token.Kind) bool {
	switch k {
	case token.Dot, token.ArrowL, token.ArrowR, token.LBracket, token.Colon:
		return true
	}
	return false
}

func (p *Parser) parseStep() (path.Item, bool) {
	start := p.next()
	switch start.Kind {
	case token.Dot:
		return p.parseMember(start)
	case token.ArrowL, token.ArrowR:
		dir := token.OpArrowRight
		if start.Kind == token.ArrowL {
			dir = token.OpArrowLeft
		}
		name, ok := p.expect(token.Ident, diag.SynExpectIdent, "arrow target")
		if !ok {
			return nil, false
		}
		return path.Arrow(dir, name.Text, start.Span.Cover(name.Span)), true
	case token.LBracket:
		idx, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosed, "']'"); !ok {
			return nil, false
		}
		return path.Index(idx, start.Span.Cover(p.last)), true
	default: // token.Colon
		name, ok := p.expect(token.Ident, diag.SynExpectIdent, "function name")
		if !ok {
			return nil, false
		}
		args, ok := p.parseArgs()
		if !ok {
			return nil, false
		}
		return path.Call(name.Text, args, start.Span.Cover(p.last)), true
	}
}

// parseMember: .name | .{w1 w2 …} | .$var
func (p *Parser) parseMember(dot token.Token) (path.Item, bool) {
	t := p.lx.Peek()
	switch t.Kind {
	case token.Ident:
		p.next()
		return path.Dot(t.Text, dot.Span.Cover(t.Span)), true
	case token.Dollar:
		v, ok := p.parseVar()
		if !ok {
			return nil, false
		}
		return path.Ref(v, token.OpDot, dot.Span.Cover(v.Span())), true
	case token.LBrace:
		p.next()
		var words []string
		for p.at(token.Ident) {
			words = append(words, p.next().Text)
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosed, "'}'"); !ok {
			return nil, false
		}
		if len(words) == 0 {
			p.errorf(diag.SynExpectIdent, dot.Span.Cover(p.last), "empty compound name")
			return nil, false
		}
		return path.Compound(words, dot.Span.Cover(p.last)), true
	}
	p.errorf(diag.SynExpectIdent, t.Span, "expected member name, found %s", describe(t))
	return nil, false
}

func (p *Parser) parseArgs() ([]path.Expr, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('"); !ok {
		return nil, false
	}
	var args []path.Expr
	if p.eat(token.RParen) {
		return args, true
	}
	for {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, e)
		if p.eat(token.Comma) {
			continue
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosed, "')'"); !ok {
			return nil, false
		}
		return args, true
	}
}

func (p *Parser) parseVar() (*path.VarRef, bool) {
	dollar := p.next()
	name, ok := p.expect(token.Ident, diag.SynExpectIdent, "variable name")
	if !ok {
		return nil, false
	}
	return path.Var(name.Text, dollar.Span.Cover(name.Span)), true
}

func (p *Parser) parseExpr() (path.Expr, bool) {
	t := p.lx.Peek()
	switch t.Kind {
	case token.StringLit:
		p.next()
		s, err := strconv.Unquote(t.Text)
		if err != nil {
			p.errorf(diag.SynUnexpectedToken, t.Span, "invalid string literal %s", t.Text)
			return nil, false
		}
		return path.Text(s, t.Span), true
	case token.IntLit:
		p.next()
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			p.errorf(diag.SynBadNumber, t.Span, "invalid integer %s: %v", t.Text, err)
			return nil, false
		}
		return path.Int(v, t.Span), true
	case token.FloatLit:
		p.next()
		v, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			p.errorf(diag.SynBadNumber, t.Span, "invalid number %s: %v", t.Text, err)
			return nil, false
		}
		return path.Double(v, t.Span), true
	case token.Dollar:
		return p.parseVar()
	case token.Hash, token.Caret, token.Tilde:
		return p.parsePath()
	}
	p.errorf(diag.SynUnexpectedToken, t.Span, "expected expression, found %s", describe(t))
	return nil, false
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF, token.Newline:
		return t.Kind.String()
	}
	return strconv.Quote(t.Text)
}
