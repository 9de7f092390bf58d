package parser

import (
	"github.com/rubiojr/berg/ast"
	"github.com/rubiojr/berg/diag"
	"github.com/rubiojr/berg/source"
)

type frame struct {
	boundary ast.Boundary
	// indent is the column of the block's lines for an Indent frame.
	indent int
	depth  uint8
}

// grouper matches opens with closes. Explicit groups are closed by a
// character; indented blocks and heading sections close themselves when
// the indentation drops, when an enclosing group closes or at the end of
// input. Terms and operators pass straight through to the binder.
type grouper struct {
	*binder
	frames     []frame
	lineIndent int
}

func newGrouper(b *binder) *grouper {
	return &grouper{binder: b}
}

func (g *grouper) open(b ast.Boundary, r source.ByteRange) {
	g.frames = append(g.frames, frame{boundary: b, indent: g.lineIndent})
	g.openGroup(b, 0, r)
}

func (g *grouper) close(b ast.Boundary, r source.ByteRange) {
	match := -1
	for k := len(g.frames) - 1; k >= 0; k-- {
		if g.frames[k].boundary == b {
			match = k
			break
		}
	}
	if match < 0 {
		g.errorTerm(diag.CloseWithoutOpen, r)
		return
	}
	g.closeTo(match+1, source.At(r.Start))
	g.frames = g.frames[:match]
	g.closeGroup(diag.NoError, r)
}

// closeTo closes every frame above index k. Explicit frames closed this
// way never saw their closing character.
func (g *grouper) closeTo(k int, at source.ByteRange) {
	for len(g.frames) > k {
		f := g.frames[len(g.frames)-1]
		g.frames = g.frames[:len(g.frames)-1]
		code := diag.NoError
		if f.boundary.Explicit() {
			code = diag.OpenWithoutClose
		}
		g.closeGroup(code, at)
	}
}

// innermostExplicit returns the index of the innermost paren or brace
// frame, or -1.
func (g *grouper) innermostExplicit() int {
	for k := len(g.frames) - 1; k >= 0; k-- {
		if g.frames[k].boundary.Explicit() {
			return k
		}
	}
	return -1
}

// newline handles a line break. nextHeading is the depth of a heading
// marker on the next line, or 0.
func (g *grouper) newline(r source.ByteRange, indent int, nextStartsTerm bool, nextHeading uint8) {
	// Dedent closes indented blocks, and any section opened inside them.
	closeFrom := len(g.frames)
	for k := len(g.frames) - 1; k > g.innermostExplicit(); k-- {
		if f := g.frames[k]; f.boundary == ast.Indent && f.indent > indent {
			closeFrom = k
		}
	}
	g.closeTo(closeFrom, source.At(r.Start))
	// Sections the marker ends are closed before the line break, so the
	// break separates the sections rather than dangling inside the first.
	if nextHeading > 0 {
		if k, ok := g.sectionEndedBy(nextHeading); ok {
			g.closeTo(k, source.At(r.Start))
		}
	}

	if g.expectOperand && indent > g.lineIndent && nextStartsTerm {
		g.frames = append(g.frames, frame{boundary: ast.Indent, indent: indent})
		g.openGroup(ast.Indent, 0, source.At(r.End))
	} else {
		g.separator(r, nextStartsTerm)
	}
	g.lineIndent = indent
}

// sectionEndedBy returns the frame index of the outermost section that a
// heading of the given depth closes: a deeper section with no parent at
// that depth. Sections never extend past an explicit group.
func (g *grouper) sectionEndedBy(depth uint8) (int, bool) {
	deeper := -1
	for k := g.innermostExplicit() + 1; k < len(g.frames); k++ {
		f := g.frames[k]
		if f.boundary != ast.Heading {
			continue
		}
		if f.depth == depth {
			return 0, false
		}
		if f.depth > depth && deeper < 0 {
			deeper = k
		}
	}
	return deeper, deeper >= 0
}

func (g *grouper) heading(depth uint8, r source.ByteRange) {
	for k := g.innermostExplicit() + 1; k < len(g.frames); k++ {
		if f := g.frames[k]; f.boundary == ast.Heading && f.depth == depth {
			g.errorTerm(diag.UnsupportedHeadingDepth, r)
			return
		}
	}
	if k, ok := g.sectionEndedBy(depth); ok {
		g.closeTo(k, source.At(r.Start))
	}
	g.frames = append(g.frames, frame{boundary: ast.Heading, indent: g.lineIndent, depth: depth})
	g.openGroup(ast.Heading, depth, r)
}

func (g *grouper) end(r source.ByteRange) {
	g.closeTo(0, r)
	g.finish(r)
}
