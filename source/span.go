package source

import (
	"fmt"

	"modernc.org/token"
)

// ByteIndex is an offset into a source buffer.
type ByteIndex uint32

// ByteRange is a half-open interval [Start, End) of a source buffer.
type ByteRange struct {
	Start ByteIndex
	End   ByteIndex
}

// Range returns the range [start, end).
func Range(start, end ByteIndex) ByteRange {
	if end < start {
		end = start
	}
	return ByteRange{Start: start, End: end}
}

// At returns the empty range positioned at i.
func At(i ByteIndex) ByteRange { return ByteRange{Start: i, End: i} }

// Len returns the number of bytes covered.
func (r ByteRange) Len() int { return int(r.End - r.Start) }

// Empty reports whether the range covers no bytes.
func (r ByteRange) Empty() bool { return r.End == r.Start }

// Union returns the smallest range covering both r and o.
func (r ByteRange) Union(o ByteRange) ByteRange {
	if o.Start < r.Start {
		r.Start = o.Start
	}
	if o.End > r.End {
		r.End = o.End
	}
	return r
}

// Slice returns the bytes of buf covered by r, clamped to the buffer.
func (r ByteRange) Slice(buf []byte) []byte {
	start, end := int(r.Start), int(r.End)
	if end > len(buf) {
		end = len(buf)
	}
	if start > end {
		start = end
	}
	return buf[start:end]
}

func (r ByteRange) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }

// LineTable maps byte offsets to line and column numbers. The tokenizer
// records every line start while it scans.
type LineTable struct {
	file *token.File
}

// NewLineTable returns a table for a buffer of the given size with a single
// line starting at offset 0.
func NewLineTable(name string, size int) *LineTable {
	return &LineTable{file: token.NewFile(name, size)}
}

// AddLineStart records that a new line begins at offset i. Offsets must be
// increasing; an offset at or past the end of the buffer is ignored.
func (t *LineTable) AddLineStart(i ByteIndex) { t.file.AddLine(int(i)) }

// LineCount returns the number of lines recorded.
func (t *LineTable) LineCount() int { return t.file.LineCount() }

// LineStart returns the offset of the first byte of line (1-based).
func (t *LineTable) LineStart(line int) ByteIndex {
	if line < 1 {
		line = 1
	}
	if n := t.file.LineCount(); line > n {
		line = n
	}
	return ByteIndex(t.file.Offset(t.file.LineStart(line)))
}

// Position resolves offset i to a 1-based line and column.
func (t *LineTable) Position(i ByteIndex) token.Position {
	off := int(i)
	if off > t.file.Size() {
		off = t.file.Size()
	}
	return t.file.Position(t.file.Pos(off))
}

// Name returns the source name the table was created for.
func (t *LineTable) Name() string { return t.file.Name() }
