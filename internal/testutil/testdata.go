package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
)

// PTRFields holds the 12-byte required block of a PTR payload.
type PTRFields struct {
	TestNumber uint32
	Head       byte
	Site       byte
	TestFlags  byte
	ParamFlags byte
	Result     float32
}

// Payload builds record payloads field by field.
type Payload struct {
	buf bytes.Buffer
}

// NewPTRPayload starts a payload with the required PTR block.
func NewPTRPayload(f PTRFields) *Payload {
	p := &Payload{}
	p.U32(f.TestNumber)
	p.Byte(f.Head, f.Site, f.TestFlags, f.ParamFlags)
	p.F32(f.Result)
	return p
}

// Byte appends raw bytes.
func (p *Payload) Byte(v ...byte) *Payload {
	p.buf.Write(v)
	return p
}

// U32 appends a little-endian uint32.
func (p *Payload) U32(v uint32) *Payload {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p.buf.Write(b[:])
	return p
}

// F32 appends a little-endian float32.
func (p *Payload) F32(v float32) *Payload {
	return p.U32(math.Float32bits(v))
}

// Text appends a length-prefixed string.
func (p *Payload) Text(s string) *Payload {
	p.buf.WriteByte(byte(len(s)))
	p.buf.WriteString(s)
	return p
}

// Bytes returns a copy of the payload built so far.
func (p *Payload) Bytes() []byte {
	return append([]byte(nil), p.buf.Bytes()...)
}

// Record frames payload with a four-byte header.
func Record(typ, sub byte, payload []byte) []byte {
	out := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint16(out[0:2], uint16(len(payload)))
	out[2] = typ
	out[3] = sub
	return append(out, payload...)
}

// PTR frames payload as a PTR record.
func PTR(payload []byte) []byte {
	return Record(15, 10, payload)
}

// Stream concatenates framed records.
func Stream(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

// FullPTR returns a payload carrying every optional group.
func FullPTR() []byte {
	return NewPTRPayload(PTRFields{TestNumber: 1001, Site: 2, Result: 1.25}).
		Text("IDD").
		Text("").
		Byte(0x0E, 0, 0, 0).
		F32(-1).
		F32(2).
		Text("mA").
		Text("%7.3f").
		Text("%7.3f").
		Text("%7.3f").
		F32(-5).
		F32(5).
		Bytes()
}
