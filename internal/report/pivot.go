package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
)

type testMeta struct {
	lo, hi, units string
}

// chipRow holds one device's results keyed by test name.
type chipRow map[string]string

// Pivot turns a PTR export (one row per measurement) into one row per tested
// device. Tests keep their first-seen order and limits. A device row for a
// site is closed as soon as a test name repeats on that site. The output starts
// with four header rows: test names, units, high limits and low limits.
func Pivot(in io.Reader, out io.Writer) error {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("pivot: empty input")
		}
		return fmt.Errorf("pivot: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"Site", "TestName", "Result"} {
		if _, ok := col[name]; !ok {
			return fmt.Errorf("pivot: input lacks %q column", name)
		}
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	meta := map[string]testMeta{}
	var testOrder []string
	current := map[string]chipRow{}
	bySite := map[string][]chipRow{}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("pivot: line %d: %w", line, err)
		}
		site := get(rec, "Site")
		name := get(rec, "TestName")
		if _, ok := meta[name]; !ok {
			meta[name] = testMeta{lo: get(rec, "LoLimit"), hi: get(rec, "HiLimit"), units: get(rec, "Units")}
			testOrder = append(testOrder, name)
		}
		row, ok := current[site]
		if !ok {
			row = chipRow{}
			current[site] = row
		}
		if _, seen := row[name]; seen {
			bySite[site] = append(bySite[site], row)
			row = chipRow{}
			current[site] = row
		}
		row[name] = get(rec, "Result")
	}
	for site, row := range current {
		if len(row) > 0 {
			bySite[site] = append(bySite[site], row)
		}
	}

	w := csv.NewWriter(out)
	headers := [4][]string{{"Site"}, {"Unit"}, {"HiLimit"}, {"LoLimit"}}
	for _, name := range testOrder {
		m := meta[name]
		headers[0] = append(headers[0], name)
		headers[1] = append(headers[1], m.units)
		headers[2] = append(headers[2], m.hi)
		headers[3] = append(headers[3], m.lo)
	}
	for _, h := range headers {
		if err := w.Write(h); err != nil {
			return fmt.Errorf("pivot: write header: %w", err)
		}
	}

	sites := make([]string, 0, len(bySite))
	for site := range bySite {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	for _, site := range sites {
		for _, row := range bySite[site] {
			cells := make([]string, 0, len(testOrder)+1)
			cells = append(cells, site)
			for _, name := range testOrder {
				cells = append(cells, row[name])
			}
			if err := w.Write(cells); err != nil {
				return fmt.Errorf("pivot: write row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}
