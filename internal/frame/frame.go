package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the fixed size of every record header.
const HeaderSize = 4

// Header identifies a record and the exact size of its payload.
type Header struct {
	Length  uint16
	Type    byte
	Subtype byte
}

// Is reports whether the header carries the given type/subtype pair.
func (h Header) Is(typ, sub byte) bool {
	return h.Type == typ && h.Subtype == sub
}

// Kind returns the STDF record mnemonic, or "UNKNOWN".
func (h Header) Kind() string {
	return KindName(h.Type, h.Subtype)
}

func (h Header) String() string {
	return fmt.Sprintf("%s(%d,%d) len=%d", h.Kind(), h.Type, h.Subtype, h.Length)
}

// ParseHeader decodes a header from the first four bytes of raw.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < HeaderSize {
		return Header{}, fmt.Errorf("record header too short: %d bytes", len(raw))
	}
	return Header{
		Length:  binary.LittleEndian.Uint16(raw[0:2]),
		Type:    raw[2],
		Subtype: raw[3],
	}, nil
}

// ReadHeader reads the next header from r. A source holding fewer than four
// bytes is a clean end of stream and returns ok=false with a nil error.
func ReadHeader(r io.Reader) (Header, bool, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, false, nil
		}
		return Header{}, false, fmt.Errorf("read record header: %w", err)
	}
	h, err := ParseHeader(buf[:])
	if err != nil {
		return Header{}, false, err
	}
	return h, true, nil
}
