package ptr

import "github.com/ojjj13/kltech-std-parser/internal/frame"

const (
	unitsLenMin = 1
	unitsLenMax = 8
)

// decodeTail handles producers that drop TestName/AlarmID and pin the limits
// to the end of the payload. The last eight bytes are LoLimit/HiLimit and the
// byte twelve from the end is the units length, provided it lies past the
// required block.
func decodeTail(payload []byte, required Record) Record {
	rec := required
	rec.Strategy = StrategyTail
	n := len(payload)

	if n-RequiredSize >= floatPairSize {
		c := frame.NewCursor(payload[n-floatPairSize:])
		rec.LoLimit, _ = c.ReadF32()
		rec.HiLimit, _ = c.ReadF32()
		rec.Fields |= Fields(FieldLimits)
	}

	unitsAt := n - RequiredSize
	if unitsAt < RequiredSize {
		return rec
	}
	if size := int(payload[unitsAt]); size >= unitsLenMin && size <= unitsLenMax && unitsAt+1+size <= n {
		units, _ := frame.NewCursor(payload[unitsAt:]).ReadText()
		rec.Units = units.Value
		rec.Fields |= Fields(FieldUnits)
	}
	return rec
}
