package stream

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/ojjj13/kltech-std-parser/internal/frame"
	"github.com/ojjj13/kltech-std-parser/internal/ptr"
)

// ErrIncompleteStream is matched by the terminal error returned when a
// record declares more payload than the source still holds.
var ErrIncompleteStream = errors.New("stream: incomplete record")

// IncompleteStreamError describes the record that could not be read.
type IncompleteStreamError struct {
	Header    frame.Header
	Offset    int64
	Available int
}

func (e *IncompleteStreamError) Error() string {
	return fmt.Sprintf("stream: %s at offset %d declares %d payload bytes, only %d available",
		e.Header.Kind(), e.Offset, e.Header.Length, e.Available)
}

func (e *IncompleteStreamError) Unwrap() error { return ErrIncompleteStream }

// Kind tags an Outcome.
type Kind uint8

const (
	KindRecord Kind = iota + 1
	KindError
	KindSkip
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindError:
		return "error"
	case KindSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one record.
//
// KindRecord carries Record. KindError carries Err (a *ptr.DecodeError) and
// the partial Record. KindSkip marks a record that is not decoded here.
// Payload always holds the raw record bytes after the header.
type Outcome struct {
	Kind    Kind
	Header  frame.Header
	Offset  int64
	Record  ptr.Record
	Err     error
	Payload []byte
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for record-level diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// WithObserver registers a callback invoked for every outcome before it is
// returned.
func WithObserver(fn func(Outcome)) Option {
	return func(r *Reader) {
		if fn != nil {
			r.observers = append(r.observers, fn)
		}
	}
}

// Reader pulls records from a byte source one at a time.
type Reader struct {
	src       io.Reader
	offset    int64
	err       error
	log       logrus.FieldLogger
	observers []func(Outcome)
	decode    func([]byte) (ptr.Record, error)
}

// NewReader returns a Reader over src.
func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		src:    src,
		log:    discardLogger(),
		decode: ptr.Decode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Offset returns the byte position of the next header.
func (r *Reader) Offset() int64 { return r.offset }

// Next returns the next outcome. It returns io.EOF once the source is
// exhausted and an *IncompleteStreamError if the last record is cut short.
// Both are terminal; every later call returns the same error.
func (r *Reader) Next() (Outcome, error) {
	if r.err != nil {
		return Outcome{}, r.err
	}
	start := r.offset
	h, ok, err := frame.ReadHeader(r.src)
	if err != nil {
		r.err = err
		return Outcome{}, err
	}
	if !ok {
		r.err = io.EOF
		return Outcome{}, io.EOF
	}
	r.offset += frame.HeaderSize

	payload := make([]byte, h.Length)
	n, err := io.ReadFull(r.src, payload)
	r.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.err = &IncompleteStreamError{Header: h, Offset: start, Available: n}
			r.log.WithFields(logrus.Fields{
				"offset":   start,
				"kind":     h.Kind(),
				"declared": h.Length,
				"got":      n,
			}).Warn("stream truncated inside record payload")
		} else {
			r.err = fmt.Errorf("read %s payload at offset %d: %w", h.Kind(), start, err)
		}
		return Outcome{}, r.err
	}

	out := r.dispatch(h, start, payload)
	for _, fn := range r.observers {
		fn(out)
	}
	return out, nil
}

func (r *Reader) dispatch(h frame.Header, offset int64, payload []byte) Outcome {
	out := Outcome{Header: h, Offset: offset, Payload: payload}
	if !h.Is(frame.TypePTR, frame.SubtypePTR) {
		out.Kind = KindSkip
		return out
	}
	rec, err := r.decode(payload)
	out.Record = rec
	if err != nil {
		out.Kind = KindError
		out.Err = err
		var de *ptr.DecodeError
		if errors.As(err, &de) {
			out.Record = de.Partial
		}
		r.log.WithFields(logrus.Fields{
			"offset": offset,
			"length": h.Length,
		}).WithError(err).Debug("PTR decode failed")
		return out
	}
	out.Kind = KindRecord
	if rec.Heuristic() {
		r.log.WithFields(logrus.Fields{
			"offset":      offset,
			"test_number": rec.TestNumber,
		}).Debug("PTR decoded with tail heuristic")
	}
	return out
}

// All returns an iterator over the remaining outcomes. Iteration ends after
// a clean end of stream, or after yielding the terminal error once.
func (r *Reader) All() iter.Seq2[Outcome, error] {
	return func(yield func(Outcome, error) bool) {
		for {
			out, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Outcome{}, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
