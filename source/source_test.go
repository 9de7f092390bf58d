package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSource(t *testing.T) {
	src := String("test.berg", "1 + 2")
	assert.Equal(t, "test.berg", src.Name())
	assert.Equal(t, []byte("1 + 2"), src.Bytes())
	assert.NoError(t, src.Err())
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.berg")
	require.NoError(t, os.WriteFile(path, []byte("42\n"), 0644))

	src := File(path)
	assert.NoError(t, src.Err())
	assert.Equal(t, []byte("42\n"), src.Bytes())
}

func TestFileSourceCapturesOpenError(t *testing.T) {
	src := File(filepath.Join(t.TempDir(), "missing.berg"))
	assert.Nil(t, src.Bytes())
	err := src.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.berg")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestByteRange(t *testing.T) {
	r := Range(2, 5)
	assert.Equal(t, 3, r.Len())
	assert.False(t, r.Empty())
	assert.True(t, At(4).Empty())
	assert.Equal(t, Range(1, 5), r.Union(Range(1, 3)))
	assert.Equal(t, Range(2, 9), r.Union(At(9)))
	assert.Equal(t, []byte("cde"), r.Slice([]byte("abcdefg")))
	assert.Equal(t, []byte("c"), Range(2, 10).Slice([]byte("abc")))
	assert.Equal(t, Range(3, 3), Range(3, 1), "end is clamped to start")
}

func TestLineTable(t *testing.T) {
	buf := "ab\ncd\r\nef"
	lines := NewLineTable("t", len(buf))
	lines.AddLineStart(3)
	lines.AddLineStart(7)

	assert.Equal(t, 3, lines.LineCount())
	pos := lines.Position(4)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 2, pos.Column)
	pos = lines.Position(8)
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 2, pos.Column)
	assert.Equal(t, ByteIndex(7), lines.LineStart(3))
	assert.Equal(t, ByteIndex(7), lines.LineStart(10), "line is clamped")

	end := lines.Position(ByteIndex(len(buf) + 5))
	assert.Equal(t, 3, end.Line)
}
