package syntax

import (
	"fmt"

	"fortio.org/safecast"

	"synapse/internal/source"
)

// cursor is a byte position in a file.
type cursor struct {
	file  *source.File
	off   uint32
	limit uint32
}

func newCursor(f *source.File) cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return cursor{file: f, limit: limit}
}

func (c *cursor) eof() bool { return c.off >= c.limit }

// peek читает текущий байт, 0 на EOF
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.file.Content[c.off]
}

// peek2 возвращает байт после текущего, 0 если его нет
func (c *cursor) peek2() byte {
	if c.off+1 >= c.limit {
		return 0
	}
	return c.file.Content[c.off+1]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.file.Content[c.off]
	c.off++
	return b
}

func (c *cursor) eat(b byte) bool {
	if c.peek() == b && !c.eof() {
		c.off++
		return true
	}
	return false
}

func (c *cursor) spanFrom(start uint32) source.Span {
	return source.Span{File: c.file.ID, Start: start, End: c.off}
}
