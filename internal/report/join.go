package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ojjj13/kltech-std-parser/internal/sitecoords"
)

const pivotHeaderRows = 4

// JoinCoords appends X/Y columns to a pivoted report. Device rows are emitted
// in coordinate order: each coordinate takes the next unused row of its site.
// Rows left over get empty coordinates and keep their site's first-seen order.
func JoinCoords(in io.Reader, coords []sitecoords.Coord, out io.Writer) error {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("join: read report: %w", err)
	}
	if len(rows) < pivotHeaderRows+1 {
		return fmt.Errorf("join: report has %d rows, expected %d header rows and data", len(rows), pivotHeaderRows)
	}

	w := csv.NewWriter(out)
	for i, h := range rows[:pivotHeaderRows] {
		extra := []string{"", ""}
		if i == 0 {
			extra = []string{"X", "Y"}
		}
		if err := w.Write(append(h, extra...)); err != nil {
			return fmt.Errorf("join: write header: %w", err)
		}
	}

	pool := map[string][][]string{}
	var siteOrder []string
	for _, row := range rows[pivotHeaderRows:] {
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}
		site := row[0]
		if _, ok := pool[site]; !ok {
			siteOrder = append(siteOrder, site)
		}
		pool[site] = append(pool[site], row)
	}

	for _, c := range coords {
		queue := pool[c.Site]
		if len(queue) == 0 {
			continue
		}
		row := append(queue[0], fmt.Sprint(c.X), fmt.Sprint(c.Y))
		pool[c.Site] = queue[1:]
		if err := w.Write(row); err != nil {
			return fmt.Errorf("join: write row: %w", err)
		}
	}
	for _, site := range siteOrder {
		for _, row := range pool[site] {
			if err := w.Write(append(row, "", "")); err != nil {
				return fmt.Errorf("join: write row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}
