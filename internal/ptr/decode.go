package ptr

import "github.com/ojjj13/kltech-std-parser/internal/frame"

const (
	// RequiredSize is the size of the fixed block every PTR starts with.
	RequiredSize = 12

	optBlockSize   = 4 // OPT_FLAG + RES_SCAL, LLM_SCAL, HLM_SCAL
	floatPairSize  = 8
	formatFieldCnt = 3 // C_RESFMT, C_LLMFMT, C_HLMFMT
)

// Decode reconstructs a PTR from its payload. Optional groups are taken in
// field order for as long as the payload has bytes for them; OPT_FLAG is kept
// but never consulted. A TestName or AlarmID whose length byte overruns the
// payload switches to the tail layout (see decodeTail).
func Decode(payload []byte) (Record, error) {
	if len(payload) < RequiredSize {
		return Record{}, &DecodeError{Reason: ReasonRecordTooShort, Length: len(payload)}
	}
	c := frame.NewCursor(payload)
	required := readRequired(c)
	rec := required

	name, ok := c.ReadText()
	if !ok {
		return rec, nil
	}
	if name.Truncated {
		return decodeTail(payload, required), nil
	}
	rec.TestName = name.Value
	rec.Fields |= Fields(FieldTestName)

	alarm, ok := c.ReadText()
	if !ok {
		return rec, nil
	}
	if alarm.Truncated {
		return decodeTail(payload, required), nil
	}
	rec.AlarmID = alarm.Value
	rec.Fields |= Fields(FieldAlarmID)

	if c.Remaining() < optBlockSize {
		return rec, nil
	}
	rec.OptFlag, _ = c.ReadU8()
	c.Skip(optBlockSize - 1)
	rec.Fields |= Fields(FieldOptFlag)

	if c.Remaining() < floatPairSize {
		return rec, nil
	}
	rec.LoLimit, _ = c.ReadF32()
	rec.HiLimit, _ = c.ReadF32()
	rec.Fields |= Fields(FieldLimits)

	units, ok := c.ReadText()
	if !ok {
		return rec, nil
	}
	rec.Units = units.Value
	rec.Fields |= Fields(FieldUnits)

	formats := 0
	for ; formats < formatFieldCnt; formats++ {
		if _, ok := c.ReadText(); !ok {
			break
		}
	}
	if formats == formatFieldCnt {
		rec.Fields |= Fields(FieldFormats)
	}

	if c.Remaining() < floatPairSize {
		return rec, nil
	}
	rec.LoSpec, _ = c.ReadF32()
	rec.HiSpec, _ = c.ReadF32()
	rec.Fields |= Fields(FieldSpecs)
	return rec, nil
}

func readRequired(c *frame.Cursor) Record {
	var rec Record
	rec.TestNumber, _ = c.ReadU32()
	rec.HeadNumber, _ = c.ReadU8()
	rec.SiteNumber, _ = c.ReadU8()
	rec.TestFlags, _ = c.ReadU8()
	rec.ParamFlags, _ = c.ReadU8()
	rec.Result, _ = c.ReadF32()
	return rec
}
