package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"synapse/internal/diag"
	"synapse/internal/source"
)

type palette struct {
	err, warn, info, code, path, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan),
		code:  color.New(color.Bold),
		path:  color.New(color.FgWhite, color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(location(fs, d.Primary, opts)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		excerpt(w, fs, d.Primary, p, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
			excerpt(w, fs, n.Span, p, opts)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(fs, sp, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// excerpt печатает строку и каретку. Колонки считаются в ширине терминала,
// так что CJK и эмодзи не сбивают подчёркивание.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, p palette, opts PrettyOpts) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	line := f.Line(start.Line)
	if line == "" {
		return
	}
	line = strings.ReplaceAll(line, "\t", " ")

	from := clampCol(line, start.Col)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(line, end.Col)
	}
	pad := runewidth.StringWidth(line[:from])
	width := max(runewidth.StringWidth(line[from:to]), 1)

	if opts.Width > 0 {
		limit := int(opts.Width)
		if runewidth.StringWidth(line) > limit {
			line = runewidth.Truncate(line, limit, "...")
		}
		if pad >= limit {
			pad, width = limit-1, 1
		} else if pad+width > limit {
			width = limit - pad
		}
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", gutter, line)
	fmt.Fprintf(w, "%s%s%s\n",
		strings.Repeat(" ", len(gutter)-2)+"| ",
		strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// clampCol turns a 1-based byte column into a byte offset within line.
func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	return min(int(col-1), len(line))
}
