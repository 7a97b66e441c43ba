package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ojjj13/kltech-std-parser/internal/sitecoords"
)

const ptrCSV = `Site,TestNumber,Result,TestFlag,TestName,Units,LoLimit,HiLimit
1,10,0.5,0,VDD,V,0,1
0,10,0.6,0,VDD,V,0,1
1,11,12,0,IDD,mA,5,20
0,11,13,0,IDD,mA,9,99
1,10,0.7,0,VDD,V,0,1
0,10,0.8,0,VDD,V,0,1
1,11,14,0,IDD,mA,5,20
`

func TestPivot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Pivot(strings.NewReader(ptrCSV), &out))

	want := "Site,VDD,IDD\n" +
		"Unit,V,mA\n" +
		"HiLimit,1,20\n" +
		"LoLimit,0,5\n" +
		"0,0.6,13\n" +
		"0,0.8,\n" +
		"1,0.5,12\n" +
		"1,0.7,14\n"
	require.Equal(t, want, out.String())
}

func TestPivotRejectsMissingColumns(t *testing.T) {
	err := Pivot(strings.NewReader("Site,Result\n1,2\n"), &bytes.Buffer{})
	require.ErrorContains(t, err, "TestName")
}

func TestPivotEmptyInput(t *testing.T) {
	require.Error(t, Pivot(strings.NewReader(""), &bytes.Buffer{}))
}

func TestJoinCoords(t *testing.T) {
	var pivoted bytes.Buffer
	require.NoError(t, Pivot(strings.NewReader(ptrCSV), &pivoted))

	coords := []sitecoords.Coord{
		{X: 10, Y: 20, Site: "1"},
		{X: 11, Y: 20, Site: "0"},
		{X: 12, Y: 20, Site: "1"},
		{X: 13, Y: 20, Site: "1"}, // no row left for site 1
	}
	var out bytes.Buffer
	require.NoError(t, JoinCoords(&pivoted, coords, &out))

	want := "Site,VDD,IDD,X,Y\n" +
		"Unit,V,mA,,\n" +
		"HiLimit,1,20,,\n" +
		"LoLimit,0,5,,\n" +
		"1,0.5,12,10,20\n" +
		"0,0.6,13,11,20\n" +
		"1,0.7,14,12,20\n" +
		"0,0.8,,,\n"
	require.Equal(t, want, out.String())
}

func TestJoinCoordsNeedsDataRows(t *testing.T) {
	in := "Site,A\nUnit,V\nHiLimit,1\nLoLimit,0\n"
	err := JoinCoords(strings.NewReader(in), nil, &bytes.Buffer{})
	require.Error(t, err)
}
