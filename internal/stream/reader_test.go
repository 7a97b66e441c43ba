package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ojjj13/kltech-std-parser/internal/frame"
	"github.com/ojjj13/kltech-std-parser/internal/ptr"
	"github.com/ojjj13/kltech-std-parser/internal/testutil"
)

func TestReaderYieldsOutcomesInOrder(t *testing.T) {
	src := testutil.Stream(
		testutil.Record(0, 10, []byte{2, 0}),
		testutil.PTR(testutil.NewPTRPayload(testutil.PTRFields{TestNumber: 1, Site: 3, Result: 3.14}).Bytes()),
		testutil.PTR([]byte{1, 2, 3}),
		testutil.Record(50, 30, []byte("X:1 Y:2 Site:0")),
		testutil.PTR(testutil.FullPTR()),
	)

	r := NewReader(bytes.NewReader(src))
	var kinds []Kind
	var outs []Outcome
	for out, err := range r.All() {
		require.NoError(t, err)
		kinds = append(kinds, out.Kind)
		outs = append(outs, out)
	}
	require.Equal(t, []Kind{KindSkip, KindRecord, KindError, KindSkip, KindRecord}, kinds)

	require.Equal(t, "FAR", outs[0].Header.Kind())
	require.Equal(t, []byte{2, 0}, outs[0].Payload)
	require.Equal(t, int64(0), outs[0].Offset)

	require.Equal(t, int64(6), outs[1].Offset)
	require.Equal(t, uint32(1), outs[1].Record.TestNumber)
	require.Equal(t, float32(3.14), outs[1].Record.Result)

	require.ErrorIs(t, outs[2].Err, ptr.ErrRecordTooShort)
	require.Equal(t, ptr.Record{}, outs[2].Record)

	require.Equal(t, "DTR", outs[3].Header.Kind())
	require.Equal(t, "IDD", outs[4].Record.TestName)
	require.Equal(t, int64(len(src)), r.Offset())
}

func TestReaderIncompleteStream(t *testing.T) {
	first := testutil.PTR(testutil.FullPTR())
	header := make([]byte, 4)
	binary.LittleEndian.PutUint16(header, 50)
	header[2], header[3] = 15, 10
	src := testutil.Stream(first, header, make([]byte, 30))

	r := NewReader(bytes.NewReader(src))
	out, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, KindRecord, out.Kind)

	_, err = r.Next()
	require.ErrorIs(t, err, ErrIncompleteStream)
	var ise *IncompleteStreamError
	require.True(t, errors.As(err, &ise))
	require.Equal(t, uint16(50), ise.Header.Length)
	require.Equal(t, 30, ise.Available)
	require.Equal(t, int64(len(first)), ise.Offset)

	// terminal
	_, again := r.Next()
	require.Equal(t, err, again)
}

func TestReaderAllYieldsIncompleteOnce(t *testing.T) {
	src := testutil.Stream(
		testutil.Record(1, 10, []byte{1, 2}),
		[]byte{0x10, 0x00, 15, 10, 0xAA},
	)
	var got []error
	var records int
	for out, err := range NewReader(bytes.NewReader(src)).All() {
		if err != nil {
			got = append(got, err)
			continue
		}
		records++
		require.Equal(t, KindSkip, out.Kind)
	}
	require.Equal(t, 1, records)
	require.Len(t, got, 1)
	require.ErrorIs(t, got[0], ErrIncompleteStream)
}

func TestReaderShortTrailingHeaderIsCleanEnd(t *testing.T) {
	src := testutil.Stream(testutil.PTR(testutil.FullPTR()), []byte{0x01, 0x00})
	r := NewReader(bytes.NewReader(src))
	_, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderEmptySource(t *testing.T) {
	n := 0
	for range NewReader(bytes.NewReader(nil)).All() {
		n++
	}
	require.Zero(t, n)
}

func TestReaderZeroLengthRecord(t *testing.T) {
	src := testutil.Stream(testutil.Record(1, 20, nil), testutil.PTR(nil))
	r := NewReader(bytes.NewReader(src))
	out, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, KindSkip, out.Kind)
	out, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, KindError, out.Kind)
}

func TestReaderSkipNeverDecodes(t *testing.T) {
	// Would crash the decoder if it were routed there.
	poison := bytes.Repeat([]byte{0xFF}, 300)
	src := testutil.Stream(
		testutil.Record(15, 11, poison),
		testutil.Record(16, 10, poison),
		testutil.Record(50, 30, poison),
	)
	r := NewReader(bytes.NewReader(src))
	r.decode = func([]byte) (ptr.Record, error) {
		panic("decoder invoked for non-PTR record")
	}
	n := 0
	for out, err := range r.All() {
		require.NoError(t, err)
		require.Equal(t, KindSkip, out.Kind)
		require.Len(t, out.Payload, len(poison))
		n++
	}
	require.Equal(t, 3, n)
}

func TestReaderObserver(t *testing.T) {
	src := testutil.Stream(testutil.PTR(testutil.FullPTR()), testutil.Record(2, 10, []byte{1}))
	var seen []Kind
	r := NewReader(bytes.NewReader(src), WithObserver(func(o Outcome) { seen = append(seen, o.Kind) }))
	for range r.All() {
	}
	require.Equal(t, []Kind{KindRecord, KindSkip}, seen)
}

func TestReaderStopsWhenCallerStops(t *testing.T) {
	src := testutil.Stream(
		testutil.PTR(testutil.FullPTR()),
		testutil.PTR(testutil.FullPTR()),
	)
	r := NewReader(bytes.NewReader(src))
	for out := range r.All() {
		require.Equal(t, KindRecord, out.Kind)
		break
	}
	out, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, KindRecord, out.Kind)
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderHeaderKindInIncompleteError(t *testing.T) {
	err := &IncompleteStreamError{Header: frame.Header{Length: 9, Type: 1, Subtype: 10}, Offset: 4, Available: 2}
	require.Contains(t, err.Error(), "MIR")
}
