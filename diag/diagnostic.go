package diag

import (
	"fmt"
	"strings"

	"modernc.org/token"

	"github.com/rubiojr/berg/source"
)

// Diagnostic is a failure resolved against its source text, ready to be
// shown to a user.
type Diagnostic struct {
	Code    Code
	Message string
	Source  string
	Start   token.Position
	End     token.Position
	Snippet string
}

// New resolves code at byte range r of buf.
func New(code Code, name string, buf []byte, lines *source.LineTable, r source.ByteRange) *Diagnostic {
	d := &Diagnostic{
		Code:    code,
		Message: code.Message(),
		Source:  name,
	}
	if lines != nil {
		d.Start = lines.Position(r.Start)
		d.End = lines.Position(r.End)
		d.Snippet = Snippet(buf, lines, r)
	}
	return d
}

func (d *Diagnostic) Error() string { return d.String() }

// String renders the diagnostic as "name:line:col: Code: message".
func (d *Diagnostic) String() string {
	if d.Start.Line == 0 {
		return fmt.Sprintf("%s: %s: %s", d.Source, d.Code, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Source, d.Start.Line, d.Start.Column, d.Code, d.Message)
}

// Snippet renders the line holding r.Start with the line before it for
// context and a run of carets under the covered bytes. Ranges spanning
// several lines are underlined to the end of the first line.
func Snippet(buf []byte, lines *source.LineTable, r source.ByteRange) string {
	pos := lines.Position(r.Start)
	line := pos.Line
	if line < 1 {
		return ""
	}

	text := lineText(buf, lines, line)
	col := pos.Column
	if col < 1 {
		col = 1
	}
	width := r.Len()
	if rest := len(text) - (col - 1); width > rest {
		width = rest
	}
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lineText(buf, lines, line-1))
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, text)
	fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
	return b.String()
}

func lineText(buf []byte, lines *source.LineTable, line int) string {
	start := lines.LineStart(line)
	end := source.ByteIndex(len(buf))
	if line < lines.LineCount() {
		end = lines.LineStart(line + 1)
	}
	text := string(source.Range(start, end).Slice(buf))
	return strings.TrimRight(text, "\r\n")
}
