// Package source describes the bytes a program is parsed from and the
// offsets used to point back into them.
package source

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Source is a named byte buffer. A source that could not be opened reports
// the failure through Err instead of panicking or returning it eagerly; the
// parser turns it into an ordinary evaluation error.
type Source interface {
	Name() string
	Bytes() []byte
	Err() error
}

type bufferSource struct {
	name string
	buf  []byte
}

// Bytes returns a Source over an in-memory buffer.
func Bytes(name string, buf []byte) Source {
	return &bufferSource{name: name, buf: buf}
}

// String returns a Source over a string.
func String(name, src string) Source {
	return &bufferSource{name: name, buf: []byte(src)}
}

func (s *bufferSource) Name() string  { return s.name }
func (s *bufferSource) Bytes() []byte { return s.buf }
func (s *bufferSource) Err() error    { return nil }

type fileSource struct {
	path string
	once sync.Once
	buf  []byte
	err  error
}

// File returns a Source that reads path the first time its contents or
// error are requested.
func File(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string { return s.path }

func (s *fileSource) load() {
	s.once.Do(func() {
		buf, err := os.ReadFile(s.path)
		if err != nil {
			s.err = errors.Wrapf(err, "reading %s", s.path)
			return
		}
		s.buf = buf
	})
}

// Bytes returns the file contents, or nil if it could not be read.
func (s *fileSource) Bytes() []byte {
	s.load()
	return s.buf
}

func (s *fileSource) Err() error {
	s.load()
	return s.err
}
