package frame

// Record type/subtype pairs used by this module.
const (
	TypePTR    byte = 15
	SubtypePTR byte = 10

	TypeDTR    byte = 50
	SubtypeDTR byte = 30
)

type kindKey struct {
	typ byte
	sub byte
}

var kindNames = map[kindKey]string{
	{0, 10}:  "FAR",
	{0, 20}:  "ATR",
	{1, 10}:  "MIR",
	{1, 20}:  "MRR",
	{1, 30}:  "PCR",
	{1, 40}:  "HBR",
	{1, 50}:  "SBR",
	{1, 60}:  "PMR",
	{1, 62}:  "PGR",
	{1, 63}:  "PLR",
	{1, 70}:  "RDR",
	{1, 80}:  "SDR",
	{2, 10}:  "WIR",
	{2, 20}:  "WRR",
	{2, 30}:  "WCR",
	{5, 10}:  "PIR",
	{5, 20}:  "PRR",
	{10, 30}: "TSR",
	{15, 10}: "PTR",
	{15, 15}: "MPR",
	{15, 20}: "FTR",
	{20, 10}: "BPS",
	{20, 20}: "EPS",
	{50, 10}: "GDR",
	{50, 30}: "DTR",
}

// KindName returns the mnemonic for a type/subtype pair.
func KindName(typ, sub byte) string {
	if name, ok := kindNames[kindKey{typ, sub}]; ok {
		return name
	}
	return "UNKNOWN"
}
