package ptr

import (
	"errors"
	"fmt"
	"strings"
)

// Field marks an optional group of a PTR payload.
type Field uint8

const (
	FieldTestName Field = 1 << iota
	FieldAlarmID
	FieldOptFlag
	FieldLimits
	FieldUnits
	FieldFormats
	FieldSpecs
)

var fieldNames = []struct {
	f    Field
	name string
}{
	{FieldTestName, "test_name"},
	{FieldAlarmID, "alarm_id"},
	{FieldOptFlag, "opt_flag"},
	{FieldLimits, "limits"},
	{FieldUnits, "units"},
	{FieldFormats, "formats"},
	{FieldSpecs, "specs"},
}

// Fields is the set of optional groups consumed while decoding.
type Fields uint8

// Has reports whether f was consumed.
func (fs Fields) Has(f Field) bool { return fs&Fields(f) != 0 }

// Count returns the number of optional groups consumed.
func (fs Fields) Count() int {
	n := 0
	for _, def := range fieldNames {
		if fs.Has(def.f) {
			n++
		}
	}
	return n
}

func (fs Fields) String() string {
	var parts []string
	for _, def := range fieldNames {
		if fs.Has(def.f) {
			parts = append(parts, def.name)
		}
	}
	return strings.Join(parts, "|")
}

// Strategy tells how a record was reconstructed.
type Strategy uint8

const (
	// StrategyForward walks the documented field order.
	StrategyForward Strategy = iota
	// StrategyTail reads limits and units at fixed offsets from the end.
	StrategyTail
)

func (s Strategy) String() string {
	if s == StrategyTail {
		return "tail"
	}
	return "forward"
}

// Record is a decoded Parametric Test Record.
type Record struct {
	TestNumber uint32
	HeadNumber byte
	SiteNumber byte
	TestFlags  byte
	ParamFlags byte
	Result     float32

	TestName string
	AlarmID  string
	OptFlag  byte
	LoLimit  float32
	HiLimit  float32
	Units    string
	LoSpec   float32
	HiSpec   float32

	Fields   Fields
	Strategy Strategy
}

// Heuristic reports whether the record came from the tail fallback and
// should be trusted less.
func (r Record) Heuristic() bool { return r.Strategy == StrategyTail }

// HasLimits reports whether LoLimit/HiLimit were present.
func (r Record) HasLimits() bool { return r.Fields.Has(FieldLimits) }

// HasUnits reports whether Units was present.
func (r Record) HasUnits() bool { return r.Fields.Has(FieldUnits) }

// HasSpecs reports whether LoSpec/HiSpec were present.
func (r Record) HasSpecs() bool { return r.Fields.Has(FieldSpecs) }

// Reason classifies a record-level decode failure.
type Reason string

const ReasonRecordTooShort Reason = "record too short"

// ErrRecordTooShort is matched by every DecodeError for a payload that cannot
// hold the required block.
var ErrRecordTooShort = errors.New("ptr: record too short")

// DecodeError is a record-level failure. Partial holds whatever was read.
type DecodeError struct {
	Reason  Reason
	Length  int
	Partial Record
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ptr: %s (%d bytes)", e.Reason, e.Length)
}

func (e *DecodeError) Unwrap() error {
	if e.Reason == ReasonRecordTooShort {
		return ErrRecordTooShort
	}
	return nil
}
