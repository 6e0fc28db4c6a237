package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format renders the node as a compact one-line expression.
func Format(a Allocator, id NodeID) string {
	var sb strings.Builder
	formatNode(&sb, a, id, 0)
	return sb.String()
}

// depth guards against malformed cyclic graphs.
const maxFormatDepth = 64

func formatNode(sb *strings.Builder, a Allocator, id NodeID, depth int) {
	n := a.Node(id)
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	if depth > maxFormatDepth {
		sb.WriteString("...")
		return
	}
	switch n.Kind {
	case KindEmpty:
		sb.WriteString("<empty>")
	case KindLastResult:
		sb.WriteString("<last>")
	case KindText:
		sb.WriteString(strconv.Quote(n.Text))
	case KindCompound:
		sb.WriteString("{" + n.Text + "}")
	case KindInt:
		sb.WriteString(strconv.FormatInt(n.Int, 10))
	case KindDouble:
		sb.WriteString(strconv.FormatFloat(n.Dbl, 'g', -1, 64))
	case KindFunction:
		sb.WriteString(n.Text)
	case KindVariable:
		sb.WriteString("$" + n.Text)
	case KindConstant:
		sb.WriteString("&" + n.Text)
	case KindResult, KindCall:
		if n.Kind == KindCall {
			sb.WriteString("call ")
		}
		formatNode(sb, a, n.Target, depth+1)
		sb.WriteByte('(')
		for i, arg := range ArgsOf(a, id) {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatNode(sb, a, arg, depth+1)
		}
		sb.WriteByte(')')
	case KindPush, KindPop, KindReturn, KindEval:
		sb.WriteString(n.Kind.String() + " ")
		formatNode(sb, a, n.Target, depth+1)
	case KindCluster:
		sb.WriteString(n.Tag.String() + "{")
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteString("; ")
			}
			formatNode(sb, a, item, depth+1)
		}
		sb.WriteByte('}')
	default:
		fmt.Fprintf(sb, "<%s #%d>", n.Kind, id)
	}
}

// DumpOptions configures code dumping.
type DumpOptions struct {
	// Indent is the prefix of every statement line.
	Indent string
}

// Dump writes one statement per line. Every id must be a statement.
func Dump(w io.Writer, a Allocator, stmts []NodeID, opts DumpOptions) error {
	if w == nil || a == nil {
		return nil
	}
	for _, id := range stmts {
		if n := a.Node(id); n == nil || !n.IsStatement() {
			return fmt.Errorf("node #%d is not a statement", id)
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", opts.Indent, Format(a, id)); err != nil {
			return err
		}
	}
	return nil
}
