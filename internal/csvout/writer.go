package csvout

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ojjj13/kltech-std-parser/internal/ptr"
)

// Column names of the PTR export.
var (
	BaseColumns = []string{"Site", "TestNumber", "Result", "TestFlag", "TestName", "Units", "LoLimit", "HiLimit"}
	SpecColumns = []string{"LoSpec", "HiSpec"}
)

// Writer writes decoded PTRs as CSV rows.
type Writer struct {
	w           *csv.Writer
	includeSpec bool
	wroteHeader bool
	rows        int
}

// NewWriter returns a Writer. includeSpec adds the LoSpec/HiSpec columns.
func NewWriter(w io.Writer, includeSpec bool) *Writer {
	return &Writer{w: csv.NewWriter(w), includeSpec: includeSpec}
}

// Columns returns the header row.
func (w *Writer) Columns() []string {
	cols := append([]string(nil), BaseColumns...)
	if w.includeSpec {
		cols = append(cols, SpecColumns...)
	}
	return cols
}

// Write appends one record, emitting the header first if needed.
func (w *Writer) Write(rec ptr.Record) error {
	if !w.wroteHeader {
		if err := w.w.Write(w.Columns()); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		w.wroteHeader = true
	}
	if err := w.w.Write(w.row(rec)); err != nil {
		return fmt.Errorf("write csv row %d: %w", w.rows+1, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of records written.
func (w *Writer) Rows() int { return w.rows }

// Flush writes the header even when no record was written, then flushes.
func (w *Writer) Flush() error {
	if !w.wroteHeader {
		if err := w.w.Write(w.Columns()); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		w.wroteHeader = true
	}
	w.w.Flush()
	return w.w.Error()
}

func (w *Writer) row(rec ptr.Record) []string {
	row := []string{
		strconv.Itoa(int(rec.SiteNumber)),
		strconv.FormatUint(uint64(rec.TestNumber), 10),
		FormatFloat(rec.Result),
		strconv.Itoa(int(rec.TestFlags)),
		rec.TestName,
		"",
		"",
		"",
	}
	if rec.HasUnits() {
		row[5] = rec.Units
	}
	if rec.HasLimits() {
		row[6] = FormatFloat(rec.LoLimit)
		row[7] = FormatFloat(rec.HiLimit)
	}
	if w.includeSpec {
		if rec.HasSpecs() {
			row = append(row, FormatFloat(rec.LoSpec), FormatFloat(rec.HiSpec))
		} else {
			row = append(row, "", "")
		}
	}
	return row
}

// FormatFloat renders a float32 with the shortest representation that
// round-trips.
func FormatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
