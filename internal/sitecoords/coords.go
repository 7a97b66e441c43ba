package sitecoords

import (
	"regexp"
	"strconv"

	"github.com/ojjj13/kltech-std-parser/internal/frame"
	"github.com/ojjj13/kltech-std-parser/internal/stream"
)

var coordPattern = regexp.MustCompile(`X:(\d+)\s+Y:(\d+)\s+Site:(\d+)`)

// Coord is a die position announced in a datalog text record.
type Coord struct {
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
	Site string `json:"site" yaml:"site"`
}

// Extractor collects coordinates from DTR outcomes. Use Observe as a
// stream.WithObserver callback.
type Extractor struct {
	// MaxCount stops collection after that many coordinates; zero is unlimited.
	MaxCount int

	coords []Coord
}

// Observe inspects a single outcome.
func (e *Extractor) Observe(out stream.Outcome) {
	if out.Kind != stream.KindSkip || !out.Header.Is(frame.TypeDTR, frame.SubtypeDTR) {
		return
	}
	if e.Full() {
		return
	}
	if c, ok := Parse(out.Payload); ok {
		e.coords = append(e.coords, c)
	}
}

// Full reports whether MaxCount has been reached.
func (e *Extractor) Full() bool {
	return e.MaxCount > 0 && len(e.coords) >= e.MaxCount
}

// Coords returns the coordinates in file order.
func (e *Extractor) Coords() []Coord {
	return e.coords
}

// Parse looks for the coordinate pattern in a DTR payload after masking
// non-printable bytes.
func Parse(payload []byte) (Coord, bool) {
	m := coordPattern.FindStringSubmatch(frame.Printable(payload, '.'))
	if m == nil {
		return Coord{}, false
	}
	x, err := strconv.Atoi(m[1])
	if err != nil {
		return Coord{}, false
	}
	y, err := strconv.Atoi(m[2])
	if err != nil {
		return Coord{}, false
	}
	return Coord{X: x, Y: y, Site: m[3]}, true
}
