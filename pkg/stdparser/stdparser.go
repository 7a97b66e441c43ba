package stdparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ojjj13/kltech-std-parser/internal/csvout"
	"github.com/ojjj13/kltech-std-parser/internal/ptr"
	"github.com/ojjj13/kltech-std-parser/internal/sitecoords"
	"github.com/ojjj13/kltech-std-parser/internal/stream"
)

// RecordError is a PTR that could not be decoded.
type RecordError struct {
	Offset int64
	Err    error
}

// Result captures the outcome of Decode.
type Result struct {
	Records   []ptr.Record
	Errors    []RecordError
	Skipped   int
	Heuristic int
	Bytes     int64
	Coords    []sitecoords.Coord

	// Incomplete is set when the source ended inside a record. Everything
	// collected before that point is still valid.
	Incomplete *stream.IncompleteStreamError
}

// String renders a JSON summary of the result.
func (r Result) String() string {
	summary := map[string]any{
		"records":   len(r.Records),
		"errors":    len(r.Errors),
		"skipped":   r.Skipped,
		"heuristic": r.Heuristic,
		"bytes":     r.Bytes,
	}
	if len(r.Coords) > 0 {
		summary["coords"] = len(r.Coords)
	}
	if r.Incomplete != nil {
		summary["incomplete"] = r.Incomplete.Error()
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("records:%d errors:%d skipped:%d (marshal error: %v)", len(r.Records), len(r.Errors), r.Skipped, err)
	}
	return string(data)
}

// WriteCSV writes the decoded records as a PTR export.
func (r Result) WriteCSV(w io.Writer, includeSpec bool) error {
	cw := csvout.NewWriter(w, includeSpec)
	for _, rec := range r.Records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// Decode reads every record from src. A truncated source is reported in
// Result.Incomplete rather than as an error; the returned error is reserved
// for I/O failures and cancellation.
func Decode(ctx context.Context, src io.Reader, opts Options) (Result, error) {
	var res Result
	var extractor *sitecoords.Extractor
	streamOpts := opts.streamOptions()
	if opts.Coords {
		extractor = &sitecoords.Extractor{MaxCount: opts.MaxCoords}
		streamOpts = append(streamOpts, stream.WithObserver(extractor.Observe))
	}

	r := stream.NewReader(src, streamOpts...)
	for out, err := range r.All() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		if err != nil {
			var ise *stream.IncompleteStreamError
			if errors.As(err, &ise) {
				if opts.Metrics != nil {
					opts.Metrics.Incomplete.Inc()
				}
				res.Incomplete = ise
				break
			}
			return res, err
		}
		switch out.Kind {
		case stream.KindRecord:
			res.Records = append(res.Records, out.Record)
			if out.Record.Heuristic() {
				res.Heuristic++
			}
		case stream.KindError:
			res.Errors = append(res.Errors, RecordError{Offset: out.Offset, Err: out.Err})
		case stream.KindSkip:
			res.Skipped++
		}
	}
	res.Bytes = r.Offset()
	if extractor != nil {
		res.Coords = extractor.Coords()
	}
	return res, nil
}

// ExtractCoords collects die coordinates only. With MaxCoords set it stops
// reading src as soon as that many have been found.
func ExtractCoords(ctx context.Context, src io.Reader, opts Options) (Result, error) {
	var res Result
	extractor := &sitecoords.Extractor{MaxCount: opts.MaxCoords}
	streamOpts := append(opts.streamOptions(), stream.WithObserver(extractor.Observe))

	r := stream.NewReader(src, streamOpts...)
	for out, err := range r.All() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		if err != nil {
			var ise *stream.IncompleteStreamError
			if errors.As(err, &ise) {
				res.Incomplete = ise
				break
			}
			return res, err
		}
		if out.Kind == stream.KindSkip {
			res.Skipped++
		}
		if extractor.Full() {
			break
		}
	}
	res.Bytes = r.Offset()
	res.Coords = extractor.Coords()
	return res, nil
}

// ExtractCoordsFile opens path and runs ExtractCoords on it.
func ExtractCoordsFile(ctx context.Context, path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ExtractCoords(ctx, f, opts)
}

// DecodeFile opens path and decodes it.
func DecodeFile(ctx context.Context, path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(ctx, f, opts)
}
