package frame

import (
	"encoding/binary"
	"math"
	"strings"
)

// Cursor is a bounded reader over a single record payload. It borrows the
// slice and never moves past its end: fixed-width reads that do not fit fail
// without advancing.
type Cursor struct {
	buf []byte
	off int
}

// Text is a length-prefixed string as found in the payload.
type Text struct {
	Value string
	// Declared is the length byte as written by the producer.
	Declared int
	// Truncated is set when Declared ran past the end of the payload.
	Truncated bool
}

// NewCursor returns a cursor positioned at the start of payload.
func NewCursor(payload []byte) *Cursor {
	return &Cursor{buf: payload}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Len returns the payload size.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Skip advances n bytes if they are available.
func (c *Cursor) Skip(n int) bool {
	if n < 0 || c.Remaining() < n {
		return false
	}
	c.off += n
	return true
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (byte, bool) {
	if c.Remaining() < 1 {
		return 0, false
	}
	v := c.buf[c.off]
	c.off++
	return v, true
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, bool) {
	if c.Remaining() < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off : c.off+4])
	c.off += 4
	return v, true
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (c *Cursor) ReadF32() (float32, bool) {
	bits, ok := c.ReadU32()
	if !ok {
		return 0, false
	}
	return math.Float32frombits(bits), true
}

// ReadText reads a length byte followed by up to that many bytes. When the
// payload ends early the value is cut short and the cursor stops at the end;
// that is still a successful read. ok is false only if no length byte is left.
func (c *Cursor) ReadText() (Text, bool) {
	n, ok := c.ReadU8()
	if !ok {
		return Text{}, false
	}
	t := Text{Declared: int(n)}
	take := t.Declared
	if rem := c.Remaining(); take > rem {
		take = rem
		t.Truncated = true
	}
	t.Value = string(c.buf[c.off : c.off+take])
	c.off += take
	return t, true
}

// Printable replaces every byte outside the printable ASCII range with
// placeholder.
func Printable(raw []byte, placeholder byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, by := range raw {
		if by >= 32 && by < 127 {
			b.WriteByte(by)
			continue
		}
		b.WriteByte(placeholder)
	}
	return b.String()
}
