package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"synapse/internal/diag"
	"synapse/internal/source"
	"synapse/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Kind, []string, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.Add("t.syn", []byte(src)))
	bag := diag.NewBag(0)
	lx := NewLexer(f, diag.BagReporter{Bag: bag})
	var kinds []token.Kind
	var texts []string
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return kinds, texts, bag
		}
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
}

func TestLexer_Path(t *testing.T) {
	kinds, texts, bag := lexAll(t, `#asset.{big red}->owner[-2]:fn("a\"b", 1.5) // tail`+"\n~net.$v -= 3")
	wantKinds := []token.Kind{
		token.Hash, token.Ident, token.Dot, token.LBrace, token.Ident, token.Ident, token.RBrace,
		token.ArrowR, token.Ident, token.LBracket, token.IntLit, token.RBracket,
		token.Colon, token.Ident, token.LParen, token.StringLit, token.Comma, token.FloatLit, token.RParen,
		token.Newline,
		token.Tilde, token.Ident, token.Dot, token.Dollar, token.Ident, token.MinusEq, token.IntLit,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if texts[10] != "-2" || texts[15] != `"a\"b"` || texts[17] != "1.5" {
		t.Errorf("literal texts = %q %q %q", texts[10], texts[15], texts[17])
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %d", bag.Len())
	}
}

func TestLexer_Unicode(t *testing.T) {
	kinds, texts, _ := lexAll(t, "^тезаурус.café")
	if diff := cmp.Diff([]token.Kind{token.Caret, token.Ident, token.Dot, token.Ident}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if texts[1] != "тезаурус" || texts[3] != "café" {
		t.Errorf("texts = %q", texts)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`"open`, diag.SynUnclosed},
		{"\"line\nbreak\"", diag.SynUnclosed},
		{"#a ? b", diag.SynUnexpectedToken},
		{"#a < b", diag.SynUnexpectedToken},
	}
	for _, tt := range tests {
		_, _, bag := lexAll(t, tt.src)
		if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
			t.Errorf("%q: want %s", tt.src, tt.code.ID())
		}
	}
}
