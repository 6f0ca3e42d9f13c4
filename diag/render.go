package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Renderer formats diagnostics as message + file:line:column + a source
// snippet with a caret span under the offending tokens, using ANSI colors
// when writing to a terminal (unless NoColor is set).
type Renderer struct {
	Out     io.Writer
	NoColor bool
}

// NewRenderer builds a Renderer that writes to out. Colors are enabled
// automatically when out is a terminal, unless noColor forces them off.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	return &Renderer{Out: out, NoColor: noColor || !isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (r *Renderer) color(code, s string) string {
	if r.NoColor {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (r *Renderer) red(s string) string    { return r.color("31", s) }
func (r *Renderer) yellow(s string) string { return r.color("33", s) }
func (r *Renderer) bold(s string) string   { return r.color("1", s) }

// Render prints every diagnostic in list to Out in recording order.
func (r *Renderer) Render(list *List) {
	for _, d := range list.Diagnostics() {
		r.render(d)
	}
}

func (r *Renderer) render(d Diagnostic) {
	label := "error"
	paint := r.red
	if d.Severity == Warning {
		label = "warning"
		paint = r.yellow
	}

	fmt.Fprintf(r.Out, "%s: %s\n", paint(label), r.bold(d.Message))
	fmt.Fprintf(r.Out, "  --> %s\n", d.Pos.String())

	if d.Pos.File == nil {
		return
	}

	line := d.Pos.File.Line(d.Pos.Line)
	colStart := d.Pos.Column - 1
	colEnd := colStart + 1
	if d.EndPos.File != nil && d.EndPos.Line == d.Pos.Line && d.EndPos.Column > d.Pos.Column {
		colEnd = d.EndPos.Column - 1
	}
	if colStart < 0 {
		colStart = 0
	}
	if colEnd > len(line) {
		colEnd = len(line)
	}
	if colEnd <= colStart {
		colEnd = colStart + 1
	}

	lineNum := fmt.Sprintf("%d", d.Pos.Line)
	gutter := strings.Repeat(" ", len(lineNum))
	fmt.Fprintf(r.Out, "%s |\n", gutter)
	fmt.Fprintf(r.Out, "%s | %s\n", lineNum, line)
	caret := strings.Repeat(" ", colStart) + paint(strings.Repeat("^", colEnd-colStart))
	fmt.Fprintf(r.Out, "%s | %s\n", gutter, caret)
}
